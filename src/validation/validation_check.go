// Package validation checks at startup that the server can answer the diagnostic queries
package validation

import (
	"context"

	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/connection"
)

// ValidatePreConditions checks the server version and the VIEW SERVER STATE permission.
// Problems are logged as warnings. The result reports whether every check passed.
func ValidatePreConditions(ctx context.Context, sqlConnection *connection.SQLConnection) bool {
	log.Debug("Starting pre-requisite validation")

	isSupported, err := checkSQLServerVersion(ctx, sqlConnection)
	if err != nil {
		log.Warn("Error checking server version: %s", err.Error())
		return false
	}
	if !isSupported {
		log.Warn("Unsupported SQL Server version. The diagnostics require SQL Server 2012 or later")
		return false
	}

	hasPerms, err := checkPermissions(ctx, sqlConnection)
	if err != nil {
		log.Warn("Error checking permissions: %s", err.Error())
		return false
	}
	if !hasPerms {
		log.Warn("Missing VIEW SERVER STATE permission. Diagnostic queries against the DMVs will fail")
		return false
	}

	log.Debug("Pre-requisite validation completed successfully")
	return true
}
