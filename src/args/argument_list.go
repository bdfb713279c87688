// Package args contains the argument list, defined as a struct, along with a method that validates passed-in args
package args

import (
	"errors"
	"fmt"

	sdkArgs "github.com/newrelic/infra-integrations-sdk/v3/args"
	"github.com/newrelic/infra-integrations-sdk/v3/log"
)

// Run modes
const (
	ModeServe   = "serve"
	ModeCollect = "collect"
)

// MCP transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
	TransportNone  = "none"
)

const defaultTopQueriesCount = 10

var (
	ErrInvalidMode      = errors.New("invalid configuration: unknown mode")
	ErrInvalidTransport = errors.New("invalid configuration: unknown mcp transport")
)

// ArgumentList struct that holds all arguments of the diagnostics server
type ArgumentList struct {
	sdkArgs.DefaultArgumentList
	DefaultConnection      string `default:"" help:"Full SQL Server connection string. Takes precedence over the config file and the discrete connection arguments"`
	ConfigFile             string `default:"appsettings.yaml" help:"YAML settings file holding ConnectionStrings.DefaultConnection"`
	Username               string `default:"" help:"The Microsoft SQL Server connection user name"`
	Password               string `default:"" help:"The Microsoft SQL Server connection password"`
	Instance               string `default:"" help:"The Microsoft SQL Server instance to connect to"`
	Hostname               string `default:"127.0.0.1" help:"The Microsoft SQL Server connection host name"`
	Port                   string `default:"" help:"The Microsoft SQL Server port to connect to. Only needed when instance not specified"`
	Database               string `default:"" help:"The database the diagnostics run in the context of (index usage is scoped to it)"`
	EnableSSL              bool   `default:"false" help:"If true will use SSL encryption, false will not use encryption"`
	TrustServerCertificate bool   `default:"false" help:"If true server certificate is not verified for SSL. If false certificate will be verified against supplied certificate"`
	CertificateLocation    string `default:"" help:"Certificate file to verify SSL encryption against"`
	Timeout                string `default:"30" help:"Timeout in seconds for a single SQL Query. Set 0 for no timeout"`
	ExtraConnectionURLArgs string `default:"" help:"Appends additional parameters to the connection url. Ex. 'applicationintent=readonly&foo=bar'"`
	Mode                   string `default:"serve" help:"serve runs the HTTP API and MCP tools, collect publishes every diagnostic once and exits"`
	ListenAddress          string `default:":8080" help:"Address the HTTP API listens on"`
	McpTransport           string `default:"stdio" help:"MCP transport: stdio, http (served on /mcp of the HTTP API) or none. Closing stdin ends a stdio session and stops the server. Without a usable stdin stdio falls back to none"`
	TopQueriesCount        int    `default:"10" help:"Number of top queries reported in collect mode"`
	SkipValidation         bool   `default:"false" help:"Skip the server version and permission checks at startup"`
}

// Validate validates diagnostics server arguments
func (al ArgumentList) Validate() error {
	switch al.Mode {
	case ModeServe, ModeCollect:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, al.Mode)
	}

	switch al.McpTransport {
	case TransportStdio, TransportHTTP, TransportNone:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, al.McpTransport)
	}

	// A full connection string carries everything the discrete arguments would
	if al.DefaultConnection != "" {
		return nil
	}

	if al.Hostname == "" {
		return errors.New("invalid configuration: must specify a hostname")
	}

	if al.Port != "" && al.Instance != "" {
		return errors.New("invalid configuration: specify either port or instance but not both")
	} else if al.Port == "" && al.Instance == "" {
		log.Info("Both port and instance were not specified using default port of 1433")
	}

	if al.EnableSSL && (!al.TrustServerCertificate && al.CertificateLocation == "") {
		return errors.New("invalid configuration: must specify a certificate file when using SSL and not trusting server certificate")
	}

	return nil
}

// GetTopQueriesCount returns the number of top queries reported in collect mode
func (al ArgumentList) GetTopQueriesCount() int {
	if al.TopQueriesCount <= 0 {
		return defaultTopQueriesCount
	}
	return al.TopQueriesCount
}
