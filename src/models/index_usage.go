// Package models holds the row types returned by the diagnostic queries
package models

// IndexUsage is one row of per-index usage counters in the current database
type IndexUsage struct {
	DatabaseName string `json:"DatabaseName" metric_name:"database_name" source_type:"attribute"`
	TableName    string `json:"TableName" metric_name:"table_name" source_type:"attribute"`
	IndexName    string `json:"IndexName" metric_name:"index_name" source_type:"attribute"`
	UserSeeks    int64  `json:"UserSeeks" metric_name:"index.userSeeks" source_type:"gauge"`
	UserScans    int64  `json:"UserScans" metric_name:"index.userScans" source_type:"gauge"`
	UserLookups  int64  `json:"UserLookups" metric_name:"index.userLookups" source_type:"gauge"`
	UserUpdates  int64  `json:"UserUpdates" metric_name:"index.userUpdates" source_type:"gauge"`
}
