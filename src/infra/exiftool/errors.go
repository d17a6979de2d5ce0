package exiftool

import "errors"

// The failure taxonomy exposed to callers. Wrap these so errors.Is can
// tell retryable conditions (ErrTerminated: replace the worker and try
// again) from permanent ones (ErrWriteRejected, ErrDecode).
var (
	// ErrIntegrity means a reply's declared subject did not match the
	// request. It signals request/reply desynchronization on the shared
	// stream and is never downgraded to a warning.
	ErrIntegrity = errors.New("exiftool: reply does not match request")

	// ErrDecode means a reply could not be parsed as expected.
	ErrDecode = errors.New("exiftool: undecodable reply")

	// ErrTerminated means the worker process exited while calls were
	// still pending, or a call was submitted after it exited.
	ErrTerminated = errors.New("exiftool: worker terminated")

	// ErrWriteRejected means the tool did not confirm a write.
	ErrWriteRejected = errors.New("exiftool: write rejected")
)
