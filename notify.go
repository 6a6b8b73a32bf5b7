package codechat

// Notifier surfaces user-visible notifications. It is implemented by the
// presentation layer; the core never renders anything itself.
type Notifier interface {
	// Success shows a transient success notice.
	Success(msg string)
	// Error shows an error notice.
	Error(msg string)
	// Progress shows an in-progress notice and returns a function that
	// dismisses it. The returned function is idempotent.
	Progress(msg string) (dismiss func())
}
