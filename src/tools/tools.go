// Package tools exposes the diagnostics as MCP tools
package tools

import (
	"context"
	"encoding/json"

	"github.com/coltonspears/McpServer/src/models"
	"github.com/coltonspears/McpServer/src/monitor"
)

// DefaultTopN is used when GetTopQueries is called without topN
const DefaultTopN = 10

// NoInput is the arguments of the tools that take none
type NoInput struct{}

// TopQueriesInput is the arguments of GetTopQueries
type TopQueriesInput struct {
	TopN *int `json:"topN,omitempty" jsonschema:"How many top queries to return (default 10)"`
}

func (in TopQueriesInput) topN() int {
	if in.TopN == nil {
		return DefaultTopN
	}
	return *in.TopN
}

// listJSON renders the rows returned by fetch as a JSON array
func listJSON[T any](ctx context.Context, fetch func(context.Context) ([]T, error)) (string, int, error) {
	rows, err := fetch(ctx)
	if err != nil {
		return "", 0, err
	}
	if rows == nil {
		rows = []T{}
	}

	b, err := json.Marshal(rows)
	if err != nil {
		return "", 0, err
	}
	return string(b), len(rows), nil
}

// topQueriesJSON drains the top queries sequence into a JSON array
func topQueriesJSON(ctx context.Context, m monitor.Monitor, topN int) (string, int, error) {
	queries := make([]models.TopQuery, 0)
	for q, err := range m.GetTopQueries(ctx, topN) {
		if err != nil {
			return "", 0, err
		}
		queries = append(queries, q)
	}

	b, err := json.Marshal(queries)
	if err != nil {
		return "", 0, err
	}
	return string(b), len(queries), nil
}

// deadlockGraphText returns the XML as is, it is not wrapped in JSON
func deadlockGraphText(ctx context.Context, m monitor.Monitor) (string, int, error) {
	graph, err := m.GetDeadlockGraph(ctx)
	if err != nil {
		return "", 0, err
	}
	if graph == models.NoDeadlockFound {
		return graph, 0, nil
	}
	return graph, 1, nil
}
