package logg

// Field keys shared by every component logger.
const (
	Layer     = "layer"
	Operation = "operation"
	URL       = "url"
	SessionID = "session_id"
	NodeID    = "node_id"
	Pass      = "pass"
)
