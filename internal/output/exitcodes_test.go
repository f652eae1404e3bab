package output

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	cause := errors.New("io")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"untyped", errors.New("x"), ExitUserError},
		{"user", NewUserError("bad flag"), ExitUserError},
		{"user with cause", NewUserErrorWithCause("missing", cause), ExitUserError},
		{"system", NewSystemError("boom"), ExitSystemError},
		{"wrapped system", fmt.Errorf("run: %w", NewSystemErrorWithCause("open", cause)), ExitSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewSystemErrorWithCause("open store", cause)

	assert.Equal(t, "open store", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, NewUserError("x").Unwrap())
}
