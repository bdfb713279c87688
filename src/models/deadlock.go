package models

// NoDeadlockFound is returned in place of a deadlock graph when the system_health
// session holds no xml_deadlock_report event. It is a value, not an error.
const NoDeadlockFound = "<no-deadlock-found/>"
