package models

// MissingIndex is one index recommendation from the optimizer.
// EqualityColumns and InequalityColumns are empty when the engine reports NULL.
type MissingIndex struct {
	DatabaseName      string  `json:"DatabaseName" metric_name:"database_name" source_type:"attribute"`
	TableName         string  `json:"TableName" metric_name:"table_name" source_type:"attribute"`
	EqualityColumns   string  `json:"EqualityColumns" metric_name:"equality_columns" source_type:"attribute"`
	InequalityColumns string  `json:"InequalityColumns" metric_name:"inequality_columns" source_type:"attribute"`
	IndexAdvantage    float64 `json:"IndexAdvantage" metric_name:"index.advantage" source_type:"gauge"`
}
