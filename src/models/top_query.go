package models

// TopQuery is one cached statement ranked by total worker (CPU) time
type TopQuery struct {
	TotalCPUTime int64  `json:"TotalCpuTime" metric_name:"query.totalCpuTime" source_type:"gauge"`
	ExecCount    int64  `json:"ExecCount" metric_name:"query.execCount" source_type:"gauge"`
	TotalReads   int64  `json:"TotalReads" metric_name:"query.totalReads" source_type:"gauge"`
	QueryText    string `json:"QueryText" metric_name:"query_text" source_type:"attribute"`
}
