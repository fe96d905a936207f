package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	RegisterOTP     = "register_otp"
	ResetOTP        = "reset_otp"
	Welcome         = "welcome"
	PasswordChanged = "password_changed"
)

var subjects = map[string]string{
	RegisterOTP:     "Your registration code",
	ResetOTP:        "Password reset code",
	Welcome:         "Welcome aboard",
	PasswordChanged: "Your password was changed",
}

// EmailData defines the fields the embedded templates reference.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	Code           string `json:"Code"` // OTP code
	CompanyName    string `json:"CompanyName"`
	LogoURL        string `json:"LogoURL"`
	SupportEmail   string `json:"SupportEmail"`
	UnsubscribeURL string `json:"UnsubscribeURL"`
	ExpiresAtText  string `json:"ExpiresAtText"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// WithExpiry formats an absolute expiry for the mail body.
func (d EmailData) WithExpiry(t time.Time) EmailData {
	d.ExpiresAtText = t.UTC().Format("02 January 2006, 15:04 MST")
	return d
}

// Render renders the named template and returns subject, text, and HTML bodies.
func Render(name string, data any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".txt.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}

// renderFile loads and renders a single template file from the embedded FS.
// isHTML selects html/template over text/template.
func renderFile(filename string, isHTML bool, data any) (string, error) {
	raw, err := FS.ReadFile(filename)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if isHTML {
		t, err := htmpl.New(filename).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	} else {
		t, err := texttpl.New(filename).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
