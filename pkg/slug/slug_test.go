package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Baneshwor, Kathmandu":    "baneshwor-kathmandu",
		"123 Main St.":            "123-main-st",
		"  leading and trailing ": "leading-and-trailing",
		"already-a-slug":          "already-a-slug",
		"Multiple   spaces":       "multiple-spaces",
		"UPPER":                   "upper",
		"!!!":                     "",
		"":                        "",
		"trailing punctuation!!":  "trailing-punctuation",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), "Make(%q)", in)
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "patan", WithSuffix("patan", 0))
	assert.Equal(t, "patan-1", WithSuffix("patan", 1))
	assert.Equal(t, "patan-42", WithSuffix("patan", 42))
}
