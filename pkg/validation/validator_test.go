package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	OTP      string `json:"otp" binding:"required,otp"`
}

func validate(t *testing.T, v any) error {
	t.Helper()
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return engine.Struct(v)
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	Init()

	err := validate(t, sampleRequest{})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["email"])
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "otp")
}

func TestToDetailsAliasMessages(t *testing.T) {
	Init()

	err := validate(t, sampleRequest{Email: "a@b.com", Password: "short", OTP: "12a456"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.NotContains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "otp")
}

func TestToDetailsBadEmail(t *testing.T) {
	Init()

	err := validate(t, sampleRequest{Email: "not-an-email", Password: "secret1", OTP: "123456"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Len(t, details, 1)
}

func TestToDetailsJSONErrors(t *testing.T) {
	var dst sampleRequest
	jsonErr := json.Unmarshal([]byte("{"), &dst)
	require.Error(t, jsonErr)

	details := ToDetails(jsonErr)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, details)

	assert.Nil(t, ToDetails(nil))
}
