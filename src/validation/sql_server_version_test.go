package validation

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSqlServerVersion_SupportedVersion(t *testing.T) {
	sqlConnection, mock := setupMockDB(t)
	defer sqlConnection.Connection.Close()

	mockSQLServerVersion(mock, "Microsoft SQL Server 2019 (RTM) - 15.0.2000.5")

	result, err := checkSQLServerVersion(context.Background(), sqlConnection)
	assert.NoError(t, err)
	assert.True(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSqlServerVersion_OldestSupportedVersion(t *testing.T) {
	sqlConnection, mock := setupMockDB(t)
	defer sqlConnection.Connection.Close()

	mockSQLServerVersion(mock, "Microsoft SQL Server 2012 - 11.0.2100.60 (X64)")

	result, err := checkSQLServerVersion(context.Background(), sqlConnection)
	assert.NoError(t, err)
	assert.True(t, result)
}

func TestCheckSqlServerVersion_UnsupportedVersion(t *testing.T) {
	sqlConnection, mock := setupMockDB(t)
	defer sqlConnection.Connection.Close()

	// SQL Server 2008 R2
	mockSQLServerVersion(mock, "Microsoft SQL Server 2008 R2 (RTM) - 10.50.1600.1 (X64)")

	result, err := checkSQLServerVersion(context.Background(), sqlConnection)
	assert.NoError(t, err)
	assert.False(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSqlServerVersion_EmptyVersion(t *testing.T) {
	sqlConnection, mock := setupMockDB(t)
	defer sqlConnection.Connection.Close()
	mockSQLServerVersion(mock, "")

	result, err := checkSQLServerVersion(context.Background(), sqlConnection)
	assert.ErrorIs(t, err, ErrEmptyVersion)
	assert.False(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSqlServerVersion_InvalidVersionString(t *testing.T) {
	sqlConnection, mock := setupMockDB(t)
	defer sqlConnection.Connection.Close()

	mockSQLServerVersion(mock, "Microsoft SQL Server  - version unknown")

	result, err := checkSQLServerVersion(context.Background(), sqlConnection)
	assert.ErrorIs(t, err, ErrUnparseVersion)
	assert.False(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSqlServerVersion_QueryError(t *testing.T) {
	sqlConnection, mock := setupMockDB(t)
	defer sqlConnection.Connection.Close()
	mock.ExpectQuery(regexp.QuoteMeta(getSQLServerVersionQuery)).WillReturnError(errQueryError)

	result, err := checkSQLServerVersion(context.Background(), sqlConnection)
	assert.Equal(t, errQueryError, err)
	assert.False(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseSQLServerVersion(t *testing.T) {
	version, err := parseSQLServerVersion("Microsoft SQL Server 2022 (RTM-CU12) (KB5033663) - 16.0.4115.5 (X64)")
	assert.NoError(t, err)
	assert.Equal(t, uint64(16), version.Major)
}

func TestParseSQLServerVersion_EmptyVersion(t *testing.T) {
	_, err := parseSQLServerVersion("")
	assert.Error(t, err)
}
