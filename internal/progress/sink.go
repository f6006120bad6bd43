package progress

// Sink observes every snapshot a reporter writes. Implementations must be
// safe for concurrent use across sessions; errors are logged by the reporter
// and never interrupt the extraction.
type Sink interface {
	Record(sessionID string, snap Snapshot) error
}
