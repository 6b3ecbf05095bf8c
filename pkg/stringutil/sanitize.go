package stringutil

import (
	"regexp"

	"github.com/indranilbora/agentpulse/pkg/logger"
)

var sanitizeLog = logger.New("stringutil:sanitize")

// Regex patterns for detecting potential secret key names in free-form text
// (action notifications, collector diagnostics) before it reaches a log or
// the UI.
var (
	// Match uppercase snake_case identifiers that look like secret names
	// (e.g. MY_SECRET_KEY, GITHUB_TOKEN, API_KEY).
	secretNamePattern = regexp.MustCompile(`\b([A-Z][A-Z0-9]*_[A-Z0-9_]+)\b`)

	// Match PascalCase identifiers ending with security-related suffixes
	// (e.g. GitHubToken, ApiKey, DeploySecret).
	pascalCaseSecretPattern = regexp.MustCompile(`\b([A-Z][a-z0-9]*(?:[A-Z][a-z0-9]*)*(?:Token|Key|Secret|Password|Credential|Auth))\b`)

	// Common non-sensitive identifiers that would otherwise match the
	// snake_case secret pattern.
	commonBenignKeywords = map[string]bool{
		"PATH":      true,
		"HOME":      true,
		"SHELL":     true,
		"EDITOR":    true,
		"LANG":      true,
		"USER":      true,
		"TERM":      true,
		"PWD":       true,
		"TZ":        true,
		"NODE_ENV":  true,
	}
)

// SanitizeErrorMessage redacts strings that look like secret key names from
// a message before it is surfaced in a notification or diagnostic row, e.g.
// when an env-audit collector reports on a tracked `.env` file's contents.
func SanitizeErrorMessage(message string) string {
	if message == "" {
		return message
	}

	sanitizeLog.Printf("Sanitizing message: length=%d", len(message))

	sanitized := secretNamePattern.ReplaceAllStringFunc(message, func(match string) string {
		if commonBenignKeywords[match] {
			return match
		}
		sanitizeLog.Printf("Redacted snake_case secret pattern: %s", match)
		return "[REDACTED]"
	})

	sanitized = pascalCaseSecretPattern.ReplaceAllString(sanitized, "[REDACTED]")

	if sanitized != message {
		sanitizeLog.Print("message sanitization applied redactions")
	}

	return sanitized
}
