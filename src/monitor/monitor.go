// Package monitor runs the read-only diagnostic queries against SQL Server and maps their rows into models
package monitor

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/connection"
	"github.com/coltonspears/McpServer/src/models"
)

// Monitor is the set of diagnostics both the HTTP API and the MCP tools are built on
type Monitor interface {
	GetMissingIndexes(ctx context.Context) ([]models.MissingIndex, error)
	GetBlockedQueries(ctx context.Context) ([]models.BlockedQuery, error)
	GetDeadlockGraph(ctx context.Context) (string, error)
	GetIndexUsageStats(ctx context.Context) ([]models.IndexUsage, error)
	GetTopQueries(ctx context.Context, topN int) iter.Seq2[models.TopQuery, error]
	GetWaitStats(ctx context.Context) ([]models.WaitStat, error)
}

// SQLServerMonitor implements Monitor over a connection pool.
// Every call takes its own connection and hands it back before returning.
type SQLServerMonitor struct {
	connection *connection.SQLConnection
}

var _ Monitor = (*SQLServerMonitor)(nil)

// NewSQLServerMonitor creates a monitor that queries through sqlConnection
func NewSQLServerMonitor(sqlConnection *connection.SQLConnection) *SQLServerMonitor {
	return &SQLServerMonitor{connection: sqlConnection}
}

// Row types scan the nullable columns. NULL maps to "" in the models.

type missingIndexRow struct {
	DatabaseName      sql.NullString `db:"database_name"`
	TableName         sql.NullString `db:"table_name"`
	EqualityColumns   sql.NullString `db:"equality_columns"`
	InequalityColumns sql.NullString `db:"inequality_columns"`
	IndexAdvantage    float64        `db:"index_advantage"`
}

type blockedQueryRow struct {
	BlockingSessionID   int32          `db:"blocking_session_id"`
	BlockedSessionID    int32          `db:"blocked_session_id"`
	WaitDurationMs      int64          `db:"wait_duration_ms"`
	WaitType            sql.NullString `db:"wait_type"`
	ResourceDescription sql.NullString `db:"resource_description"`
}

// index_name is NULL for heaps
type indexUsageRow struct {
	DatabaseName sql.NullString `db:"database_name"`
	TableName    sql.NullString `db:"table_name"`
	IndexName    sql.NullString `db:"index_name"`
	UserSeeks    int64          `db:"user_seeks"`
	UserScans    int64          `db:"user_scans"`
	UserLookups  int64          `db:"user_lookups"`
	UserUpdates  int64          `db:"user_updates"`
}

type topQueryRow struct {
	TotalCPUTime         int64          `db:"total_cpu_time"`
	ExecCount            int64          `db:"exec_count"`
	TotalReads           int64          `db:"total_reads"`
	BatchText            sql.NullString `db:"batch_text"`
	StatementStartOffset int64          `db:"statement_start_offset"`
	StatementEndOffset   int64          `db:"statement_end_offset"`
}

// GetMissingIndexes returns the optimizer's index recommendations, most advantageous first
func (m *SQLServerMonitor) GetMissingIndexes(ctx context.Context) ([]models.MissingIndex, error) {
	rows, err := selectAll[missingIndexRow](ctx, m.connection, missingIndexesQuery)
	if err != nil {
		return nil, err
	}

	results := make([]models.MissingIndex, 0, len(rows))
	for _, row := range rows {
		results = append(results, models.MissingIndex{
			DatabaseName:      row.DatabaseName.String,
			TableName:         row.TableName.String,
			EqualityColumns:   row.EqualityColumns.String,
			InequalityColumns: row.InequalityColumns.String,
			IndexAdvantage:    row.IndexAdvantage,
		})
	}
	return results, nil
}

// GetBlockedQueries returns every waiting task that is blocked by another session
func (m *SQLServerMonitor) GetBlockedQueries(ctx context.Context) ([]models.BlockedQuery, error) {
	rows, err := selectAll[blockedQueryRow](ctx, m.connection, blockedQueriesQuery)
	if err != nil {
		return nil, err
	}

	results := make([]models.BlockedQuery, 0, len(rows))
	for _, row := range rows {
		results = append(results, models.BlockedQuery{
			BlockingSessionID:   row.BlockingSessionID,
			BlockedSessionID:    row.BlockedSessionID,
			WaitDurationMs:      row.WaitDurationMs,
			WaitType:            row.WaitType.String,
			ResourceDescription: row.ResourceDescription.String,
		})
	}
	return results, nil
}

// GetDeadlockGraph returns the XML of the most recent deadlock captured by the
// system_health session, or models.NoDeadlockFound when there is none.
func (m *SQLServerMonitor) GetDeadlockGraph(ctx context.Context) (string, error) {
	conn, err := m.connection.Conn(ctx)
	if err != nil {
		return "", err
	}
	defer connection.Release(conn)

	log.Debug("Running query: %s", deadlockGraphQuery)
	var graph sql.NullString
	err = conn.GetContext(ctx, &graph, deadlockGraphQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NoDeadlockFound, nil
	} else if err != nil {
		return "", err
	}

	if !graph.Valid {
		return models.NoDeadlockFound, nil
	}
	return graph.String, nil
}

// GetIndexUsageStats returns usage counters of the indexes in the current database
func (m *SQLServerMonitor) GetIndexUsageStats(ctx context.Context) ([]models.IndexUsage, error) {
	rows, err := selectAll[indexUsageRow](ctx, m.connection, indexUsageStatsQuery)
	if err != nil {
		return nil, err
	}

	results := make([]models.IndexUsage, 0, len(rows))
	for _, row := range rows {
		results = append(results, models.IndexUsage{
			DatabaseName: row.DatabaseName.String,
			TableName:    row.TableName.String,
			IndexName:    row.IndexName.String,
			UserSeeks:    row.UserSeeks,
			UserScans:    row.UserScans,
			UserLookups:  row.UserLookups,
			UserUpdates:  row.UserUpdates,
		})
	}
	return results, nil
}

// GetTopQueries lazily yields the topN cached statements by total CPU time.
// The connection is taken when iteration starts and released when it stops,
// whether the rows ran out, the consumer broke off, or ctx was cancelled.
// A failure ends the sequence with a zero TopQuery and the error.
func (m *SQLServerMonitor) GetTopQueries(ctx context.Context, topN int) iter.Seq2[models.TopQuery, error] {
	return func(yield func(models.TopQuery, error) bool) {
		conn, err := m.connection.Conn(ctx)
		if err != nil {
			yield(models.TopQuery{}, err)
			return
		}
		defer connection.Release(conn)

		log.Debug("Running query: %s", topQueriesQuery)
		rows, err := conn.QueryxContext(ctx, topQueriesQuery, topN)
		if err != nil {
			yield(models.TopQuery{}, err)
			return
		}
		defer rows.Close()

		for {
			if err := ctx.Err(); err != nil {
				yield(models.TopQuery{}, err)
				return
			}
			if !rows.Next() {
				break
			}

			var row topQueryRow
			if err := rows.StructScan(&row); err != nil {
				yield(models.TopQuery{}, err)
				return
			}

			query := models.TopQuery{
				TotalCPUTime: row.TotalCPUTime,
				ExecCount:    row.ExecCount,
				TotalReads:   row.TotalReads,
				QueryText:    statementText(row.BatchText.String, row.StatementStartOffset, row.StatementEndOffset),
			}
			if !yield(query, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.TopQuery{}, err)
		}
	}
}

// GetWaitStats returns the accumulated waits of every wait type that has been waited on
func (m *SQLServerMonitor) GetWaitStats(ctx context.Context) ([]models.WaitStat, error) {
	return selectAll[models.WaitStat](ctx, m.connection, waitStatsQuery)
}

// selectAll runs query on a dedicated connection and scans every row into T.
// The result is never nil so an empty result serializes as [].
func selectAll[T any](ctx context.Context, sqlConnection *connection.SQLConnection, query string) ([]T, error) {
	conn, err := sqlConnection.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer connection.Release(conn)

	log.Debug("Running query: %s", query)
	results := make([]T, 0)
	if err := conn.SelectContext(ctx, &results, query); err != nil {
		return nil, err
	}
	return results, nil
}
