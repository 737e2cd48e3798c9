package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundUnwrapsToSentinel(t *testing.T) {
	err := NewNotFound("project")

	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "project not found", err.Class())
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", err)))
}

func TestInvalidCredentialsShareClass(t *testing.T) {
	a := NewInvalidCredentialsError("Invalid email")
	b := NewInvalidCredentialsError("Incorrect password")

	assert.Equal(t, a.StatusCode, b.StatusCode)
	assert.Equal(t, a.Class(), b.Class())
	assert.Equal(t, a.Field, b.Field)
	assert.NotEqual(t, a.Message(), b.Message())
}

func TestDatabaseErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
	}{
		{"duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "skills_name_key"`), http.StatusConflict},
		{"missing row", errors.New("record not found"), http.StatusNotFound},
		{"no server", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
		{"other", errors.New("syntax error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("find", "skill", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}
}

func TestDatabaseErrorKeepsApiErr(t *testing.T) {
	original := NewNotFound("skill")
	assert.Same(t, original, NewDatabaseError("find", "skill", original))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(NewExpiredTokenError()))
	assert.True(t, IsConfigError(NewConfigError("JWT_SECRET", nil)))
	assert.True(t, IsUpstreamError(NewUpstreamError("GitHub", "Not Found", nil)))
}
