package validation

import (
	"errors"
	"regexp"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/coltonspears/McpServer/src/connection"
)

// constants
var errQueryError = errors.New("query error")

// util functions
func setupMockDB(t *testing.T) (*connection.SQLConnection, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	sqlConnection := &connection.SQLConnection{Connection: sqlx.NewDb(db, "sqlmock")}
	return sqlConnection, mock
}

func mockSQLServerVersion(mock sqlmock.Sqlmock, version string) {
	mock.ExpectQuery(regexp.QuoteMeta(getSQLServerVersionQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"@@VERSION"}).AddRow(version))
}

func mockCheckPermissions(mock sqlmock.Sqlmock, hasPermission bool) {
	mock.ExpectQuery(regexp.QuoteMeta(checkPermissionsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"has_permission"}).AddRow(hasPermission))
}
