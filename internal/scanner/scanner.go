// Package scanner is the Tier 3 collaborator: a post-write scan of file
// contents for leaked credentials and destructive SQL. It is strictly
// advisory — it only produces warning strings and degrades to "no warnings"
// on any error, never blocking the write.
package scanner

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type credentialPattern struct {
	re *regexp.Regexp
	// label describes the finding in the emitted warning.
	label string
	// envSuppressed skips the match when the file also references
	// environment variables, the usual sign the value is not hardcoded.
	envSuppressed bool
}

var credentialPatterns = []credentialPattern{
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		"AWS Access Key ID", false},
	{regexp.MustCompile(`aws_secret_access_key\s*[=:]\s*[A-Za-z0-9/+=]{40}`),
		"AWS Secret Access Key", false},
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[=:]\s*["']?[A-Za-z0-9+/=_-]{20,}`),
		"Potential API key", false},
	{regexp.MustCompile(`(?i)(secret|token|password|credential)\s*[=:]\s*["'][^"']{8,}`),
		"Potential secret/token/password hardcoded", true},
	{regexp.MustCompile(`PRIVATE KEY-----`),
		"Private key", false},
	{regexp.MustCompile(`(ghp_|gho_|ghu_|ghs_|ghr_)[A-Za-z0-9]{20,}`),
		"GitHub token", false},
	{regexp.MustCompile(`glpat-[A-Za-z0-9_-]{20,}`),
		"GitLab token", false},
	{regexp.MustCompile(`xox[baprs]-[0-9]{10,}`),
		"Slack token", false},
	{regexp.MustCompile(`(?i)(postgresql|mysql|mongodb|redis|amqp)://[^:\s]+:[^@\s]+@`),
		"Database connection string with embedded credentials", true},
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]`),
		"JWT token", false},
	{regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),
		"Google API key", false},
	{regexp.MustCompile(`(sk_live_|pk_live_|sk_test_|rk_live_)[A-Za-z0-9]{20,}`),
		"Stripe API key", false},
}

// envVarReferenceRe detects environment variable usage for false positive
// suppression.
var envVarReferenceRe = regexp.MustCompile(`process\.env|os\.environ|\$\{|getenv|ENV\[|var\(`)

type sqlPattern struct {
	re    *regexp.Regexp
	label string
}

var sqlPatterns = []sqlPattern{
	{regexp.MustCompile(`(?i)DROP\s+(TABLE|DATABASE|SCHEMA|INDEX)`),
		"Destructive SQL (DROP) found in file — verify this is intentional"},
	{regexp.MustCompile(`(?i)TRUNCATE\s+`),
		"Destructive SQL (TRUNCATE) found in file — verify this is intentional"},
}

var (
	sqlDeleteRe          = regexp.MustCompile(`(?i)DELETE\s+FROM\s+\w+\s*;`)
	sqlDeleteWithWhereRe = regexp.MustCompile(`(?i)DELETE\s+FROM\s+\w+\s+WHERE`)
)

// sqlExtensions are the source file types where SQL scanning applies.
var sqlExtensions = map[string]struct{}{
	".sql": {}, ".py": {}, ".js": {}, ".ts": {}, ".rb": {},
	".go": {}, ".java": {}, ".php": {}, ".sh": {}, ".bash": {},
}

// skipPatterns are path fragments that should never be scanned: template env
// files, lockfiles, and vendor trees trip the patterns constantly without
// ever holding live secrets.
var skipPatterns = []string{
	"/.git/",
	"/.env.example",
	"/.env.template",
	"/.env.sample",
	"/node_modules/",
	"/vendor/",
	"/package-lock.json",
	"/yarn.lock",
	"/pnpm-lock.yaml",
	"/Podfile.lock",
	"/go.sum",
	"/Cargo.lock",
}

// ShouldSkip reports whether the path is on the scan denylist.
func ShouldSkip(path string) bool {
	for _, pattern := range skipPatterns {
		if strings.Contains(path, pattern) || strings.HasSuffix(path, strings.TrimPrefix(pattern, "/")) {
			return true
		}
	}
	return false
}

// ScanFile scans a written file for credential material and destructive SQL
// and returns human-readable warnings. Unreadable or skipped files return
// nil: Tier 3 never blocks.
func ScanFile(path string) []string {
	if ShouldSkip(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return ScanContent(path, string(data))
}

// ScanContent runs the credential and SQL checks against content already in
// memory. The path is only used for extension and denylist gating.
func ScanContent(path, content string) []string {
	if ShouldSkip(path) {
		return nil
	}

	var warnings []string
	hasEnvVars := envVarReferenceRe.MatchString(content)

	for _, p := range credentialPatterns {
		if !p.re.MatchString(content) {
			continue
		}
		if p.envSuppressed && hasEnvVars {
			continue
		}
		warnings = append(warnings, "- "+p.label+" detected")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := sqlExtensions[ext]; ok {
		for _, p := range sqlPatterns {
			if p.re.MatchString(content) {
				warnings = append(warnings, "- "+p.label)
			}
		}
		if sqlDeleteRe.MatchString(content) && !sqlDeleteWithWhereRe.MatchString(content) {
			warnings = append(warnings, "- DELETE FROM without WHERE clause found in file")
		}
	}

	return warnings
}
