// Package redaction scrubs credentials and personal identifiers from
// modification text before it is sent to external providers.
package redaction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Engine performs regex-based detection and redaction.
type Engine struct {
	patterns []*regexp.Regexp
}

// NewEngine creates a redaction engine with the default patterns.
func NewEngine() *Engine {
	return &Engine{
		patterns: defaultPatterns(),
	}
}

// NewEngineWithPatterns creates an engine with the default patterns plus
// the given extras. Invalid extra patterns are rejected.
func NewEngineWithPatterns(extras []string) (*Engine, error) {
	patterns := defaultPatterns()
	for _, raw := range extras {
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("compile redaction pattern %q: %w", raw, err)
		}
		patterns = append(patterns, re)
	}
	return &Engine{patterns: patterns}, nil
}

// Redact scans input and replaces matches with stable placeholders. The
// same value always maps to the same placeholder, so repeated mentions in
// a change description stay correlated after scrubbing.
func (e *Engine) Redact(input string) (string, error) {
	result := input
	seen := make(map[string]string) // match -> placeholder

	for _, pattern := range e.patterns {
		matches := pattern.FindAllString(result, -1)
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = e.generatePlaceholder(match)
		}
	}

	for match, placeholder := range seen {
		result = strings.ReplaceAll(result, match, placeholder)
	}

	return result, nil
}

// IsRedacted checks if the content contains redaction placeholders.
func (e *Engine) IsRedacted(content string) bool {
	return strings.Contains(content, "<REDACTED:")
}

// generatePlaceholder creates a stable, unique placeholder for a match.
func (e *Engine) generatePlaceholder(match string) string {
	hash := sha256.Sum256([]byte(match))
	hashStr := hex.EncodeToString(hash[:])[:8]
	return fmt.Sprintf("<REDACTED:%s>", hashStr)
}

// defaultPatterns returns the built-in detection patterns. Modification
// requests routinely quote control system credentials and requester
// contact details, neither of which belongs in a provider prompt.
func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// OpenAI API keys
		`sk-[a-zA-Z0-9]{20,}`,
		// Anthropic API keys
		`sk-ant-[a-zA-Z0-9\-]{20,}`,
		// AWS Access Key ID
		`AKIA[0-9A-Z]{16}`,
		// Google API keys
		`AIza[0-9A-Za-z\-_]{35}`,
		// JWT tokens
		`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`,
		// Private keys (PEM format)
		`-----BEGIN\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----`,
		// Generic bearer tokens
		`Bearer\s+[a-zA-Z0-9_\-\.]+`,
		// Explicit password assignments in procedure text
		`(?i)password\s*[:=]\s*\S+`,
		// Email addresses (requester contact info)
		`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`,
		// US phone numbers
		`\b(?:\+1[\s.\-]?)?\(?\d{3}\)?[\s.\-]\d{3}[\s.\-]\d{4}\b`,
		// Badge/employee numbers as written on travelers
		`(?i)\b(?:badge|employee)\s*(?:no\.?|number|#|id)\s*[:=]?\s*\d{4,}`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}

	return compiled
}
