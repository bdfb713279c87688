package collect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/newrelic/infra-integrations-sdk/v3/integration"
	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/connection"
)

const (
	instanceNamespace = "ms-instance"
	instanceNameQuery = "SELECT COALESCE(@@SERVERNAME, SERVERPROPERTY('ServerName'), SERVERPROPERTY('MachineName')) AS instance_name"
)

var ErrExpectedOneRow = errors.New("expected 1 row for instance name")

// CreateInstanceEntity creates the ms-instance entity the samples are reported on.
// It is named after the server, or after the connection host when the server reports no name.
func CreateInstanceEntity(ctx context.Context, i *integration.Integration, con *connection.SQLConnection) (*integration.Entity, error) {
	name, err := serverName(ctx, con)
	if err != nil {
		return nil, err
	}

	var idAttrs []integration.IDAttribute
	if name.Valid {
		idAttrs = append(idAttrs, integration.NewIDAttribute("instance", name.String))
	} else {
		log.Warn("Server reported no instance name, using host %s", con.Host)
		name.String = con.Host
	}
	return i.EntityReportedVia(con.Host, name.String, instanceNamespace, idAttrs...)
}

func serverName(ctx context.Context, con *connection.SQLConnection) (sql.NullString, error) {
	var names []sql.NullString
	if err := con.Query(ctx, &names, instanceNameQuery); err != nil {
		return sql.NullString{}, err
	}
	if len(names) != 1 {
		return sql.NullString{}, fmt.Errorf("%w, but got %d", ErrExpectedOneRow, len(names))
	}
	return names[0], nil
}
