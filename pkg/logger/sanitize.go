package logger

import (
	"strings"
)

// SanitizedEmail masks a login identifier for logging (e.g., "u***@*******.com").
// Identifiers without an "@" are treated as usernames and keep only their first character.
func SanitizedEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "[empty]"
	}

	parts := strings.Split(email, "@")
	if len(parts) > 2 {
		return "[invalid-email]"
	}

	username := maskTail(parts[0])
	if len(parts) == 1 {
		return username
	}

	// Mask domain: keep TLD, mask the rest
	domain := parts[1]
	domainParts := strings.Split(domain, ".")
	if len(domainParts) > 1 {
		for i := 0; i < len(domainParts)-1; i++ {
			domainParts[i] = strings.Repeat("*", len(domainParts[i]))
		}
		domain = strings.Join(domainParts, ".")
	}

	return username + "@" + domain
}

func maskTail(s string) string {
	if len(s) <= 1 {
		return s
	}
	return s[:1] + strings.Repeat("*", len(s)-1)
}

// sensitiveParams are query parameter names whose presence redacts the whole query string
var sensitiveParams = []string{
	"password",
	"secret",
	"token",
	"email",
	"auth",
}

// SanitizeQueryString checks if query string contains sensitive parameters
// and returns true if the entire query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
