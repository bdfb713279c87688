package monitor

// The DMV queries behind each diagnostic. Column aliases match the db tags of the row types.

const missingIndexesQuery = `
SELECT
	DB_NAME(mid.database_id) AS database_name,
	OBJECT_NAME(mid.object_id, mid.database_id) AS table_name,
	mid.equality_columns AS equality_columns,
	mid.inequality_columns AS inequality_columns,
	migs.avg_total_user_cost * migs.avg_user_impact
		* (migs.user_seeks + migs.user_scans) AS index_advantage
FROM sys.dm_db_missing_index_details AS mid
JOIN sys.dm_db_missing_index_groups AS mig
	ON mid.index_handle = mig.index_handle
JOIN sys.dm_db_missing_index_group_stats AS migs
	ON mig.index_group_handle = migs.group_handle
ORDER BY index_advantage DESC;`

const blockedQueriesQuery = `
SELECT
	blocking_session_id,
	session_id AS blocked_session_id,
	wait_duration_ms,
	wait_type,
	resource_description
FROM sys.dm_os_waiting_tasks
WHERE blocking_session_id <> 0;`

// event_data of the newest xml_deadlock_report in the system_health file target
const deadlockGraphQuery = `
SELECT TOP (1) CONVERT(NVARCHAR(MAX), xed.deadlock_graph) AS deadlock_graph
FROM (
	SELECT CAST(event_data AS XML) AS deadlock_graph
	FROM sys.fn_xe_file_target_read_file('system_health*.xel', NULL, NULL, NULL)
	WHERE object_name = 'xml_deadlock_report'
) AS xed
ORDER BY xed.deadlock_graph.value('(event/@timestamp)[1]', 'datetime2') DESC;`

const indexUsageStatsQuery = `
SELECT
	DB_NAME(us.database_id) AS database_name,
	OBJECT_NAME(us.object_id, us.database_id) AS table_name,
	i.name AS index_name,
	us.user_seeks,
	us.user_scans,
	us.user_lookups,
	us.user_updates
FROM sys.dm_db_index_usage_stats AS us
JOIN sys.indexes AS i
	ON us.object_id = i.object_id
	AND us.index_id = i.index_id
WHERE us.database_id = DB_ID()
ORDER BY (us.user_seeks + us.user_scans) DESC;`

// @p1 is the row limit. The statement is cut out of batch_text client side.
const topQueriesQuery = `
SELECT TOP (@p1)
	qs.total_worker_time AS total_cpu_time,
	qs.execution_count AS exec_count,
	qs.total_logical_reads AS total_reads,
	qt.text AS batch_text,
	qs.statement_start_offset,
	qs.statement_end_offset
FROM sys.dm_exec_query_stats AS qs
CROSS APPLY sys.dm_exec_sql_text(qs.sql_handle) AS qt
ORDER BY qs.total_worker_time DESC;`

const waitStatsQuery = `
SELECT
	wait_type,
	wait_time_ms,
	waiting_tasks_count,
	max_wait_time_ms
FROM sys.dm_os_wait_stats
WHERE waiting_tasks_count > 0
ORDER BY wait_time_ms DESC;`
