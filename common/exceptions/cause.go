package exceptions

// sentinelError pairs a package sentinel with the error that triggered it.
type sentinelError struct {
	sentinel error
	cause    error
}

func (e *sentinelError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *sentinelError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}
