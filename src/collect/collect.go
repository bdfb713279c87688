// Package collect publishes every diagnostic once as New Relic infrastructure samples
package collect

import (
	"context"

	"github.com/newrelic/infra-integrations-sdk/v3/data/attribute"
	"github.com/newrelic/infra-integrations-sdk/v3/data/event"
	"github.com/newrelic/infra-integrations-sdk/v3/integration"
	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/connection"
	"github.com/coltonspears/McpServer/src/models"
	"github.com/coltonspears/McpServer/src/monitor"
)

// Sample event types
const (
	MissingIndexSample = "MssqlMissingIndexSample"
	BlockedQuerySample = "MssqlBlockedQuerySample"
	IndexUsageSample   = "MssqlIndexUsageSample"
	TopQuerySample     = "MssqlTopQuerySample"
	WaitStatSample     = "MssqlWaitStatSample"
)

const (
	deadlockEventCategory = "MssqlDeadlock"
	deadlockEventSummary  = "Deadlock detected"
)

// Run creates the instance entity, populates it with every diagnostic and publishes the payload
func Run(ctx context.Context, i *integration.Integration, con *connection.SQLConnection, m monitor.Monitor, topN int) error {
	instanceEntity, err := CreateInstanceEntity(ctx, i, con)
	if err != nil {
		return err
	}

	PopulateDiagnostics(ctx, instanceEntity, m, con.Host, topN)

	return i.Publish()
}

// PopulateDiagnostics writes one metric set per diagnostic row on instanceEntity
// and a deadlock event when one was captured. A failing diagnostic is logged and skipped.
func PopulateDiagnostics(ctx context.Context, instanceEntity *integration.Entity, m monitor.Monitor, host string, topN int) {
	if waits, err := m.GetWaitStats(ctx); err != nil {
		log.Error("Could not collect wait stats: %s", err.Error())
	} else {
		populateSamples(instanceEntity, host, WaitStatSample, waits)
	}

	if usage, err := m.GetIndexUsageStats(ctx); err != nil {
		log.Error("Could not collect index usage stats: %s", err.Error())
	} else {
		populateSamples(instanceEntity, host, IndexUsageSample, usage)
	}

	if missing, err := m.GetMissingIndexes(ctx); err != nil {
		log.Error("Could not collect missing indexes: %s", err.Error())
	} else {
		populateSamples(instanceEntity, host, MissingIndexSample, missing)
	}

	if blocked, err := m.GetBlockedQueries(ctx); err != nil {
		log.Error("Could not collect blocked queries: %s", err.Error())
	} else {
		populateSamples(instanceEntity, host, BlockedQuerySample, blocked)
	}

	topQueries := make([]models.TopQuery, 0, topN)
	for q, err := range m.GetTopQueries(ctx, topN) {
		if err != nil {
			log.Error("Could not collect top queries: %s", err.Error())
			break
		}
		topQueries = append(topQueries, q)
	}
	populateSamples(instanceEntity, host, TopQuerySample, topQueries)

	populateDeadlockEvent(ctx, instanceEntity, m)
}

func populateSamples[T any](instanceEntity *integration.Entity, host, eventType string, rows []T) {
	if len(rows) == 0 {
		log.Debug("No rows for %s", eventType)
		return
	}

	for _, row := range rows {
		metricSet := instanceEntity.NewMetricSet(eventType,
			attribute.Attribute{Key: "displayName", Value: instanceEntity.Metadata.Name},
			attribute.Attribute{Key: "entityName", Value: instanceEntity.Metadata.Namespace + ":" + instanceEntity.Metadata.Name},
			attribute.Attribute{Key: "host", Value: host},
		)
		if err := metricSet.MarshalMetrics(row); err != nil {
			log.Error("Could not parse metrics from %s row: %s", eventType, err.Error())
		}
	}
}

func populateDeadlockEvent(ctx context.Context, instanceEntity *integration.Entity, m monitor.Monitor) {
	graph, err := m.GetDeadlockGraph(ctx)
	if err != nil {
		log.Error("Could not collect deadlock graph: %s", err.Error())
		return
	}
	if graph == models.NoDeadlockFound {
		return
	}

	e := event.NewWithAttributes(deadlockEventSummary, deadlockEventCategory, map[string]interface{}{
		"deadlockGraph": graph,
	})
	if err := instanceEntity.AddEvent(e); err != nil {
		log.Error("Could not add deadlock event: %s", err.Error())
	}
}
