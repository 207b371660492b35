package handler

// NoEventTypeError is returned for deliveries without an X-GitHub-Event header.
type NoEventTypeError struct{}

func (m *NoEventTypeError) Error() string {
	return "no event type found"
}

// NoRepositoryError is returned for payloads that carry no repository.
type NoRepositoryError struct{}

func (m *NoRepositoryError) Error() string {
	return "no repository found"
}

// NoInstallationIDError is returned when installation authentication is required but the payload has no installation.
type NoInstallationIDError struct{}

func (m *NoInstallationIDError) Error() string {
	return "no installation id found"
}

// UnhandledEventError is returned for deliveries whose event type is not enabled for synchronisation.
type UnhandledEventError struct {
	EventType string
}

func (m *UnhandledEventError) Error() string {
	return "unhandled event type: " + m.EventType
}
