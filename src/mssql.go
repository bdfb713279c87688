package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/newrelic/infra-integrations-sdk/v3/integration"
	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/args"
	"github.com/coltonspears/McpServer/src/collect"
	"github.com/coltonspears/McpServer/src/config"
	"github.com/coltonspears/McpServer/src/connection"
	"github.com/coltonspears/McpServer/src/monitor"
	"github.com/coltonspears/McpServer/src/telemetry"
	"github.com/coltonspears/McpServer/src/validation"
)

const (
	integrationName    = "com.coltonspears.sqlserver-diagnostics"
	integrationVersion = "1.0.0"
	dotenvFile         = ".env"
)

func main() {
	if err := config.LoadDotenv(dotenvFile); err != nil {
		log.Warn("Could not load %s: %s", dotenvFile, err.Error())
	}

	var al args.ArgumentList
	i, err := integration.New(integrationName, integrationVersion, integration.Args(&al))
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	log.SetupLogging(al.Verbose)

	if err := al.Validate(); err != nil {
		log.Error("Configuration error: %s", err.Error())
		os.Exit(1)
	}

	connectionString, err := config.ResolveConnectionString(&al)
	if err != nil {
		log.Error("Configuration error: %s", err.Error())
		os.Exit(1)
	}

	con, err := connection.NewConnection(connectionString)
	if err != nil {
		log.Error("Error creating connection to SQL Server: %s", err.Error())
		os.Exit(1)
	}
	defer con.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerShutdown, err := telemetry.InitTracer(ctx, con.Host)
	if err != nil {
		log.Warn("Tracing disabled: %s", err.Error())
		tracerShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			log.Warn("Tracer shutdown error: %s", err.Error())
		}
	}()

	if !al.SkipValidation {
		validation.ValidatePreConditions(ctx, con)
	}

	m := monitor.NewSQLServerMonitor(con)

	switch al.Mode {
	case args.ModeCollect:
		err = collect.Run(ctx, i, con, m, al.GetTopQueriesCount())
	default:
		err = serve(ctx, &al, con, m)
	}
	if err != nil {
		log.Error(err.Error())
		stop()
		con.Close()
		os.Exit(1)
	}
}
