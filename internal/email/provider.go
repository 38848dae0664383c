package email

// Provider sends transactional email. The notification service treats
// delivery as best-effort; failures must not affect the caller.
type Provider interface {
	Send(to, subject, body string) error
}
