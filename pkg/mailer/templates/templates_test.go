package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOTPTemplates(t *testing.T) {
	data := EmailData{
		Name:         "Asha",
		Email:        "asha@example.com",
		Code:         "123456",
		CompanyName:  "Hamro Rooms",
		SupportEmail: "info@hamrorooms.com",
	}

	for _, name := range []string{RegisterOTP, ResetOTP} {
		subject, text, html, err := Render(name, data)
		require.NoError(t, err, name)
		assert.NotEmpty(t, subject)
		assert.Contains(t, text, "123456")
		assert.Contains(t, html, "123456")
	}
}

func TestRenderNotificationTemplates(t *testing.T) {
	data := EmailData{Name: "Asha", CompanyName: "Hamro Rooms"}

	for _, name := range []string{Welcome, PasswordChanged} {
		subject, text, html, err := Render(name, data)
		require.NoError(t, err, name)
		assert.NotEmpty(t, subject)
		assert.Contains(t, text, "Asha")
		assert.NotEmpty(t, html)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", EmailData{})
	assert.Error(t, err)
}

func TestToMapRoundTrip(t *testing.T) {
	m := ToMap(EmailData{Name: "Asha", Code: "654321"})
	assert.Equal(t, "Asha", m["Name"])
	assert.Equal(t, "654321", m["Code"])
}
