package models

// WaitStat is the aggregated wait time of one wait type since the last restart
type WaitStat struct {
	WaitType          string `db:"wait_type" json:"WaitType" metric_name:"wait_type" source_type:"attribute"`
	WaitTimeMs        int64  `db:"wait_time_ms" json:"WaitTimeMs" metric_name:"wait.timeMs" source_type:"gauge"`
	WaitingTasksCount int64  `db:"waiting_tasks_count" json:"WaitingTasksCount" metric_name:"wait.waitingTasksCount" source_type:"gauge"`
	MaxWaitTimeMs     int64  `db:"max_wait_time_ms" json:"MaxWaitTimeMs" metric_name:"wait.maxTimeMs" source_type:"gauge"`
}
