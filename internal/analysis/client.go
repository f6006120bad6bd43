package analysis

import "context"

// Client submits documents for analysis. Implementations must not retry on
// their own; retry policy belongs to the caller.
type Client interface {
	// BeginAnalyze submits the document bytes and returns a handle to the
	// in-flight operation. It fails when the submission itself is rejected
	// (credentials, malformed document, connectivity).
	BeginAnalyze(ctx context.Context, document []byte) (Operation, error)
}

// Operation represents one in-flight analysis.
type Operation interface {
	// Done reports whether the remote operation has finished, without
	// blocking beyond a single status check.
	Done(ctx context.Context) (bool, error)
	// Result retrieves the final analysis output. It must only be called
	// after Done reports true; it fails when the remote operation itself
	// reported failure.
	Result(ctx context.Context) (*Result, error)
}
