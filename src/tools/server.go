package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/coltonspears/McpServer/src/monitor"
	"github.com/coltonspears/McpServer/src/telemetry"
)

const serverName = "SqlToolsMcpServer"

// errorBody is the text of a failed tool call
type errorBody struct {
	Error   string `json:"Error"`
	Details string `json:"Details"`
}

// NewServer creates an MCP server carrying every diagnostic tool. metrics may be nil.
func NewServer(m monitor.Monitor, metrics *telemetry.Metrics, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)
	Register(server, m, metrics)
	return server
}

// HTTPHandler serves server over the streamable HTTP transport
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

// Register adds the diagnostic tools to server
func Register(server *mcp.Server, m monitor.Monitor, metrics *telemetry.Metrics) {
	addTool(server, metrics, "GetMissingIndexes", "Get missing index recommendations.",
		func(ctx context.Context, _ NoInput) (string, int, error) {
			return listJSON(ctx, m.GetMissingIndexes)
		})
	addTool(server, metrics, "GetBlockedQueries", "Get currently blocked queries.",
		func(ctx context.Context, _ NoInput) (string, int, error) {
			return listJSON(ctx, m.GetBlockedQueries)
		})
	addTool(server, metrics, "GetDeadlockGraph", "Fetch recent deadlock graph XML.",
		func(ctx context.Context, _ NoInput) (string, int, error) {
			return deadlockGraphText(ctx, m)
		})
	addTool(server, metrics, "GetIndexUsageStats", "Show index usage statistics.",
		func(ctx context.Context, _ NoInput) (string, int, error) {
			return listJSON(ctx, m.GetIndexUsageStats)
		})
	addTool(server, metrics, "GetTopQueries", "List top N expensive queries (default N=10).",
		func(ctx context.Context, in TopQueriesInput) (string, int, error) {
			return topQueriesJSON(ctx, m, in.topN())
		})
	addTool(server, metrics, "GetWaitStats", "Summarize wait statistics.",
		func(ctx context.Context, _ NoInput) (string, int, error) {
			return listJSON(ctx, m.GetWaitStats)
		})
}

func addTool[In any](server *mcp.Server, metrics *telemetry.Metrics, name, description string, run func(context.Context, In) (string, int, error)) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		return execute(ctx, req, name, metrics, func(ctx context.Context) (string, int, error) {
			return run(ctx, in)
		}), nil, nil
	})
}

// execute runs one tool call inside a span and records its metrics.
// A failure becomes an error result carrying the same body as the HTTP API.
func execute(ctx context.Context, req *mcp.CallToolRequest, name string, metrics *telemetry.Metrics, run func(context.Context) (string, int, error)) *mcp.CallToolResult {
	if req != nil && req.Params != nil {
		if meta := req.Params.GetMeta(); meta != nil {
			carrier := propagation.MapCarrier{}
			for k, v := range meta {
				if s, ok := v.(string); ok {
					carrier.Set(k, s)
				}
			}
			ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
		}
	}

	ctx, span := telemetry.Tracer().Start(ctx, "execute_tool "+name, trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	span.SetAttributes(
		attribute.String("gen_ai.operation.name", "execute_tool"),
		attribute.String("gen_ai.tool.name", name),
		attribute.String("mcp.method.name", "tools/call"),
	)
	if req != nil && req.Session != nil {
		span.SetAttributes(attribute.String("mcp.session.id", req.Session.ID()))
	}

	log.Info("Tool '%s' was called.", name)
	start := time.Now()
	text, rows, err := run(ctx)
	metrics.ObserveRequest(telemetry.SurfaceMCP, name, start, err)
	if err != nil {
		log.Error("%s failed: %s", name, err.Error())
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return errorResult(name, err)
	}

	metrics.AddRows(name, rows)
	span.SetStatus(codes.Ok, "")
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(name string, err error) *mcp.CallToolResult {
	b, marshalErr := json.Marshal(errorBody{
		Error:   fmt.Sprintf("An error occurred while running %s.", name),
		Details: err.Error(),
	})
	if marshalErr != nil {
		b = []byte(err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
		IsError: true,
	}
}
