package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/blang/semver/v4"
	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/connection"
)

const (
	versionRegexPattern      = `\b(\d+\.\d+\.\d+)\b`
	getSQLServerVersionQuery = "SELECT @@VERSION"

	// SQL Server 2012, the first release with the system_health file target and every DMV column queried
	minimumMajorVersion = 11
)

var (
	versionRegex = regexp.MustCompile(versionRegexPattern)

	ErrEmptyVersion   = errors.New("server version is empty")
	ErrUnparseVersion = errors.New("could not parse version from server version string")
)

func parseSQLServerVersion(serverVersion string) (semver.Version, error) {
	if serverVersion == "" {
		return semver.Version{}, ErrEmptyVersion
	}
	versionStr := versionRegex.FindString(serverVersion)
	if versionStr == "" {
		return semver.Version{}, fmt.Errorf("%w: %q", ErrUnparseVersion, serverVersion)
	}
	log.Debug("Parsed version string: %s", versionStr)
	return semver.ParseTolerant(versionStr)
}

func checkSQLServerVersion(ctx context.Context, sqlConnection *connection.SQLConnection) (bool, error) {
	var serverVersion string
	if err := sqlConnection.Get(ctx, &serverVersion, getSQLServerVersionQuery); err != nil {
		return false, err
	}
	log.Debug("Server version: %s", serverVersion)

	version, err := parseSQLServerVersion(serverVersion)
	if err != nil {
		return false, err
	}
	log.Debug("Parsed semantic version: %s", version)

	if version.Major < minimumMajorVersion {
		log.Warn("Unsupported SQL Server version: %s", version.String())
		return false, nil
	}
	return true, nil
}
