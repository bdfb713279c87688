// Package connection contains the SQLConnection type and methods for manipulating and querying the connection
package connection

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	// go-mssqldb is required for mssql driver but isn't used in code
	_ "github.com/microsoft/go-mssqldb"
	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/args"
)

const driverName = "sqlserver"

// SQLConnection represents a wrapper around a pool of SQL Server connections
type SQLConnection struct {
	Connection *sqlx.DB
	Host       string
}

// NewConnection creates a new SQLConnection from a connection string.
// No connection is dialed until the first operation needs one.
func NewConnection(connectionString string) (*SQLConnection, error) {
	db, err := sqlx.Open(driverName, connectionString)
	if err != nil {
		return nil, err
	}
	return &SQLConnection{
		Connection: db,
		Host:       HostFromConnectionString(connectionString),
	}, nil
}

// Close closes the SQL connection. If an error occurs
// it is logged as a warning.
func (sc SQLConnection) Close() {
	if err := sc.Connection.Close(); err != nil {
		log.Warn("Unable to close SQL Connection: %s", err.Error())
	}
}

// Conn takes a single connection out of the pool. The caller owns it until Release.
func (sc SQLConnection) Conn(ctx context.Context) (*sqlx.Conn, error) {
	return sc.Connection.Connx(ctx)
}

// Release hands a connection taken with Conn back to the pool
func Release(conn *sqlx.Conn) {
	if err := conn.Close(); err != nil {
		log.Warn("Unable to release SQL connection: %s", err.Error())
	}
}

// Ping verifies the server is reachable
func (sc SQLConnection) Ping(ctx context.Context) error {
	return sc.Connection.PingContext(ctx)
}

// Query runs a query and loads results into v
func (sc SQLConnection) Query(ctx context.Context, v interface{}, query string) error {
	log.Debug("Running query: %s", query)
	return sc.Connection.SelectContext(ctx, v, query)
}

// Get runs a query expected to return a single row and loads it into v
func (sc SQLConnection) Get(ctx context.Context, v interface{}, query string) error {
	log.Debug("Running query: %s", query)
	return sc.Connection.GetContext(ctx, v, query)
}

// CreateConnectionURL tags in args and creates the connection string.
// All args should be validated before calling this.
func CreateConnectionURL(args *args.ArgumentList) string {
	connectionURL := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(args.Username, args.Password),
		Host:   args.Hostname,
	}

	// If port is present use port if not use instance
	if args.Port != "" {
		connectionURL.Host = fmt.Sprintf("%s:%s", connectionURL.Host, args.Port)
	} else if args.Instance != "" {
		connectionURL.Path = args.Instance
	} else {
		connectionURL.Host = fmt.Sprintf("%s:%s", connectionURL.Host, "1433")
	}

	// Format query parameters
	query := url.Values{}
	if args.Database != "" {
		query.Add("database", args.Database)
	}
	query.Add("dial timeout", args.Timeout)
	query.Add("connection timeout", args.Timeout)

	if args.ExtraConnectionURLArgs != "" {
		extraArgsMap, err := url.ParseQuery(args.ExtraConnectionURLArgs)
		if err == nil {
			for k, v := range extraArgsMap {
				query.Add(k, v[0])
			}
		} else {
			log.Warn("Could not successfully parse ExtraConnectionURLArgs: %s", err.Error())
		}
	}

	if args.EnableSSL {
		query.Add("encrypt", "true")

		query.Add("TrustServerCertificate", strconv.FormatBool(args.TrustServerCertificate))

		if !args.TrustServerCertificate {
			query.Add("certificate", args.CertificateLocation)
		}
	}

	connectionURL.RawQuery = query.Encode()

	return connectionURL.String()
}

// HostFromConnectionString extracts the server host from either a sqlserver:// URL
// or an ADO style "Server=host,port;..." connection string. Empty when none is found.
func HostFromConnectionString(connectionString string) string {
	if strings.HasPrefix(strings.ToLower(connectionString), "sqlserver://") {
		u, err := url.Parse(connectionString)
		if err != nil {
			return ""
		}
		return u.Hostname()
	}

	for _, part := range strings.Split(connectionString, ";") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "server", "data source", "address", "addr", "network address":
			return trimServer(strings.TrimSpace(value))
		}
	}
	return ""
}

// trimServer strips the protocol prefix, port and instance name from an ADO server value
func trimServer(server string) string {
	for _, prefix := range []string{"tcp:", "np:", "lpc:", "admin:"} {
		if strings.HasPrefix(strings.ToLower(server), prefix) {
			server = server[len(prefix):]
			break
		}
	}
	if host, _, found := strings.Cut(server, ","); found {
		server = host
	}
	if host, _, found := strings.Cut(server, `\`); found {
		server = host
	}
	return server
}
