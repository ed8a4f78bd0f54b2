package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: Validation("bad"), want: http.StatusUnprocessableEntity},
		{name: "not found", err: NotFound("missing"), want: http.StatusNotFound},
		{name: "conflict", err: New(KindConflict, CodeTeamNameTaken, "taken"), want: http.StatusConflict},
		{name: "state", err: New(KindState, CodeAlreadyReviewed, "reviewed"), want: http.StatusConflict},
		{name: "unauthorized", err: New(KindUnauthorized, CodeInvalidCredentials, "nope"), want: http.StatusUnauthorized},
		{name: "forbidden", err: New(KindForbidden, CodeNotOwner, "nope"), want: http.StatusForbidden},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", NotFound("x")), want: http.StatusNotFound},
		{name: "plain error", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestCodeAndMetadata(t *testing.T) {
	err := WithMetadata(KindValidation, CodeTeamSize, "team size out of range", map[string]any{
		"current": 5, "min": 2, "max": 3,
	})
	wrapped := fmt.Errorf("admit: %w", err)

	assert.True(t, IsCode(wrapped, CodeTeamSize))
	assert.True(t, IsKind(wrapped, KindValidation))
	assert.Equal(t, 5, GetMetadata(wrapped)["current"])
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Nil(t, GetMetadata(errors.New("plain")))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("smtp timeout")
	err := Dependency("send activation email", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindDependency, KindOf(err))
	assert.Contains(t, err.Error(), "smtp timeout")
}
