package http

import (
	"fmt"
	"regexp"
)

// MaxLoggedResponseLength caps how much provider response text reaches the
// logs. Change descriptions can carry facility-sensitive detail, so logs get
// a prefix only.
const MaxLoggedResponseLength = 200

// TruncateForLogging returns the first MaxLoggedResponseLength characters
// plus a truncation indicator when the response is longer.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

var urlSecretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`key=[^&"\s]+`),
	regexp.MustCompile(`apiKey=[^&"\s]+`),
	regexp.MustCompile(`api_key=[^&"\s]+`),
	regexp.MustCompile(`token=[^&"\s]+`),
	regexp.MustCompile(`access_token=[^&"\s]+`),
}

var urlSecretReplacements = []string{
	"key=[REDACTED]",
	"apiKey=[REDACTED]",
	"api_key=[REDACTED]",
	"token=[REDACTED]",
	"access_token=[REDACTED]",
}

// RedactURLSecrets redacts API keys and other secrets carried as URL query
// parameters, so a failing request URL can appear in an error message
// without leaking the credential.
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}

	result := text
	for i, pattern := range urlSecretPatterns {
		result = pattern.ReplaceAllString(result, urlSecretReplacements[i])
	}
	return result
}
