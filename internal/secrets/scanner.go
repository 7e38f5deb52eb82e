// Package secrets flags credentials committed to source files.
//
// Matching is line based against a fixed pattern table. Findings are
// reported, never acted on: they do not stop generation.
package secrets

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.SecretScanner = (*Scanner)(nil)

// Pattern is one entry of the pattern table.
type Pattern struct {
	Name     string
	Severity domain.Severity
	re       *regexp.Regexp
}

// patterns is ordered: findings on the same line follow this order.
var patterns = []Pattern{
	{"private_key", domain.SeverityHigh, regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )*PRIVATE KEY-----`)},
	{"aws_access_key_id", domain.SeverityHigh, regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"github_token", domain.SeverityHigh, regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{20,}\b`)},
	{"openai_key", domain.SeverityHigh, regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}`)},
	{"aws_secret_access_key", domain.SeverityMedium, regexp.MustCompile(`(?i)aws_secret_access_key\s*[:=]\s*["']?[A-Za-z0-9/+=]{40}`)},
	{"url_credentials", domain.SeverityMedium, regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9+.-]*://[^/\s:@]+:[^/\s@]+@`)},
	{"secret_assignment", domain.SeverityMedium, regexp.MustCompile(`\b[A-Z][A-Z0-9_]*(?:_TOKEN|_SECRET|_KEY|PASSWORD)\s*=\s*["']?[^\s"']{8,}`)},
	{"hardcoded_credential", domain.SeverityLow, regexp.MustCompile(`(?i)\b\w*(?:api_?key|token|secret)\s*=\s*["'][^"'\s]{8,}["']`)},
	{"bearer_token", domain.SeverityLow, regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]{16,}=*`)},
}

// Patterns returns the pattern table in match order.
func Patterns() []Pattern {
	return append([]Pattern(nil), patterns...)
}

// Scanner implements driven.SecretScanner.
type Scanner struct{}

// New creates a secret scanner.
func New() *Scanner {
	return &Scanner{}
}

// Scan returns the findings in content ordered by line, then by pattern.
func (s *Scanner) Scan(content []byte, path string) []domain.Finding {
	var findings []domain.Finding

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		for _, p := range patterns {
			for _, m := range p.re.FindAllString(text, -1) {
				findings = append(findings, domain.Finding{
					Type:     p.Name,
					Severity: p.Severity,
					Match:    Redact(m),
					Path:     path,
					Line:     line,
				})
			}
		}
	}
	return findings
}

// Redact keeps the first four characters of a match and masks the rest.
func Redact(match string) string {
	const keep = 4
	r := []rune(match)
	if len(r) <= keep {
		return strings.Repeat("*", len(r))
	}
	return string(r[:keep]) + strings.Repeat("*", min(len(r)-keep, 8))
}
