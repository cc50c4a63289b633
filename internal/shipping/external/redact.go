package external

import "strings"

const redactedPlaceholder = "[REDACTED]"

// Redactor scrubs configured secret values out of text before it leaves an
// adapter. It is a pure string transform with no knowledge of the transport.
type Redactor struct {
	secrets []string
}

// NewRedactor collects the secret values to scrub. Empty values are ignored
// so a blank credential can never blank out whole messages.
func NewRedactor(secrets ...string) *Redactor {
	filtered := make([]string, 0, len(secrets))
	for _, secret := range secrets {
		if strings.TrimSpace(secret) != "" {
			filtered = append(filtered, secret)
		}
	}
	return &Redactor{secrets: filtered}
}

// Scrub replaces every occurrence of a known secret in the message.
func (r *Redactor) Scrub(message string) string {
	if r == nil {
		return message
	}
	for _, secret := range r.secrets {
		message = strings.ReplaceAll(message, secret, redactedPlaceholder)
	}
	return message
}
