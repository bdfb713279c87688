package models

// BlockedQuery is one task waiting on a resource held by another session
type BlockedQuery struct {
	BlockingSessionID   int32  `json:"BlockingSessionId" metric_name:"blocking_session_id" source_type:"gauge"`
	BlockedSessionID    int32  `json:"BlockedSessionId" metric_name:"blocked_session_id" source_type:"gauge"`
	WaitDurationMs      int64  `json:"WaitDurationMs" metric_name:"wait.durationMs" source_type:"gauge"`
	WaitType            string `json:"WaitType" metric_name:"wait_type" source_type:"attribute"`
	ResourceDescription string `json:"ResourceDescription" metric_name:"resource_description" source_type:"attribute"`
}
