package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFatalAPI marks provider errors that retrying cannot fix: billing,
// quota, or credential problems. The summarizer stops retrying a file
// as soon as it sees one.
var ErrFatalAPI = errors.New("fatal LLM API error")

// fatalPatterns are substrings that identify non-retryable provider
// errors across openai, anthropic, ollama and bedrock responses.
var fatalPatterns = []string{
	"credit balance",
	"insufficient credit",
	"quota exceeded",
	"billing",
	"invalid api key",
	"incorrect api key",
	"authentication",
	"unauthorized",
	"401",
	"403",
}

// isFatalAPIError reports whether err describes a non-retryable provider
// failure. Matching is substring-based because providers return these as
// plain text in varied shapes.
func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range fatalPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// wrapFatalError wraps fatal provider errors with ErrFatalAPI so callers
// can distinguish them with errors.Is. Non-fatal errors pass through
// unchanged.
func wrapFatalError(err error) error {
	if err == nil {
		return nil
	}
	if isFatalAPIError(err) {
		return fmt.Errorf("%w: %v", ErrFatalAPI, err)
	}
	return err
}
