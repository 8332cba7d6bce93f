package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"mercator-hq/costlens/pkg/config"
)

// Redactor rewrites secrets found in strings.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
	PatternAWSKey      = "aws_access_key"
	PatternGitHubToken = "github_token"
)

// defaultPatterns are applied in order before any custom pattern.
var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternAPIKey, `(sk-[a-zA-Z0-9_-]+|api[-_]?key[-_:=]\s*[a-zA-Z0-9]+)`, "sk-***"},
	{PatternAWSKey, `\bAKIA[0-9A-Z]{16}\b`, "AKIA***"},
	{PatternGitHubToken, `\bgh[pousr]_[A-Za-z0-9]{20,}\b`, "gh_***"},
	{PatternPassword, `(password|passwd|pwd)[:=]\s*[^\s]+`, "$1: ***"},
}

// NewRedactor creates a Redactor with the built-in patterns followed by the
// custom ones. Custom patterns that do not compile are skipped.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// RedactString redacts secrets from a string value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}
	return redacted
}

// RedactAttr redacts a log attribute. Attributes whose key names a secret
// are replaced entirely; other string values are pattern-redacted. Groups are
// handled recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	if r == nil {
		return a
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		attrs := v.Group()
		out := make([]any, len(attrs))
		for i, ga := range attrs {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, out...)
	case slog.KindString:
		if isSecretKey(a.Key) {
			return slog.String(a.Key, maskValue(v.String()))
		}
		return slog.String(a.Key, r.RedactString(v.String()))
	default:
		return a
	}
}

// isSecretKey checks if a key name indicates a credential. Token counts are
// not secrets, so "token" alone does not match.
func isSecretKey(key string) bool {
	lowerKey := strings.ToLower(key)

	secretKeys := []string{
		"password", "passwd", "secret",
		"api_key", "apikey", "authorization",
		"private_key", "access_token", "auth_token",
	}

	for _, secret := range secretKeys {
		if strings.Contains(lowerKey, secret) {
			return true
		}
	}
	return false
}

// maskValue keeps a short prefix of a secret for identification.
func maskValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}
