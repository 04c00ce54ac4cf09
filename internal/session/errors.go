package session

// InitError reports that the embedded engine could not be loaded or the
// initial database could not be created. The session stays Uninitialized.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return "engine initialization failed: " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }

// ExecError reports a statement-level failure. It carries the engine's
// message verbatim and does not corrupt session state.
type ExecError struct {
	Err error
}

func (e *ExecError) Error() string { return e.Err.Error() }

func (e *ExecError) Unwrap() error { return e.Err }

// SnapshotError reports a malformed or unreadable snapshot image. The
// session is only replaced after successful deserialization, so a failed
// import leaves it untouched.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	return "snapshot failed: " + e.Err.Error()
}

func (e *SnapshotError) Unwrap() error { return e.Err }
