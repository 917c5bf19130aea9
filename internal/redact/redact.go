// Package redact strips secret material from text before it reaches the
// audit log. Commands handed to the guard routinely embed tokens and
// connection strings; logging them verbatim would turn the audit trail into
// a credential store.
package redact

import "regexp"

var sensitivePatterns = []*regexp.Regexp{
	// AWS
	regexp.MustCompile(`(?i)(aws_access_key_id|aws_secret_access_key|aws_session_token)\s*[=:]\s*['"]?[A-Za-z0-9/+=]{20,}['"]?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),

	// GitHub
	regexp.MustCompile(`(?i)(github_token|gh_token|github_pat)\s*[=:]\s*['"]?[A-Za-z0-9_-]{30,}['"]?`),
	regexp.MustCompile(`gh[poasur]_[A-Za-z0-9]{20,}`),

	// GitLab
	regexp.MustCompile(`glpat-[A-Za-z0-9_-]{20,}`),

	// Generic API keys and tokens
	regexp.MustCompile(`(?i)(api_key|apikey|api-key|secret_key|secretkey|secret-key|access_token|auth_token)\s*[=:]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`),

	// Private keys
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`),

	// Credentials embedded in URLs
	regexp.MustCompile(`https?://[^:/\s]+:[^@\s]+@`),
	regexp.MustCompile(`(?i)(postgresql|mysql|mongodb|redis|amqp)://[^:/\s]+:[^@\s]+@`),

	// Slack
	regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}[a-zA-Z0-9-]*`),

	// Stripe
	regexp.MustCompile(`[sr]k_live_[0-9a-zA-Z]{24}`),

	// Password-shaped assignments
	regexp.MustCompile(`(?i)(password|passwd|pwd|secret)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),
}

const redactedPlaceholder = "[REDACTED]"

// Redact replaces every recognized secret in the input with a placeholder.
func Redact(input string) string {
	result := input
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, redactedPlaceholder)
	}
	return result
}

// RedactAll redacts a slice of strings, preserving order.
func RedactAll(values []string) []string {
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = Redact(v)
	}
	return result
}

// ContainsSecret reports whether the input matches any secret pattern
// without rewriting it.
func ContainsSecret(input string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}
