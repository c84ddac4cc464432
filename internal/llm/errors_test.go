package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatalAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"credit balance", errors.New("Your credit balance is too low to access the API"), true},
		{"quota", errors.New("You have exceeded your quota, quota exceeded"), true},
		{"billing", errors.New("billing hard limit reached"), true},
		{"bad key", errors.New("Incorrect API key provided"), true},
		{"auth", errors.New("authentication failed"), true},
		{"http 401", errors.New("API returned unexpected status code: 401"), true},
		{"http 403", errors.New("API returned unexpected status code: 403"), true},
		{"rate limit is retryable", errors.New("rate limit exceeded, retry after 20s"), false},
		{"http 429 is retryable", errors.New("API returned unexpected status code: 429"), false},
		{"timeout is retryable", errors.New("context deadline exceeded"), false},
		{"server error is retryable", errors.New("internal server error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isFatalAPIError(tt.err))
		})
	}
}

func TestWrapFatalError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, wrapFatalError(nil))
	})

	t.Run("fatal error is marked", func(t *testing.T) {
		err := wrapFatalError(errors.New("invalid api key"))
		assert.ErrorIs(t, err, ErrFatalAPI)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("transient error is unchanged", func(t *testing.T) {
		orig := errors.New("connection reset by peer")
		assert.Equal(t, orig, wrapFatalError(orig))
	})
}
