package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidOTP, http.StatusBadRequest},
		{ErrConflict, http.StatusBadRequest},
		{ErrAuth, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnverified, http.StatusUnauthorized},
		{ErrUpstream, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), "Status(%v)", tc.err)
	}
}

func TestStatusSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("confirm registration: %w", ErrInvalidOTP)
	assert.Equal(t, http.StatusBadRequest, Status(wrapped))
}

func TestUpstreamKeepsClass(t *testing.T) {
	err := Upstream("send mail", errors.New("mailgun: 503"))
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, http.StatusInternalServerError, Status(err))
	assert.Contains(t, err.Error(), "send mail")
}
