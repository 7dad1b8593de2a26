package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filevault/filevault/internal/validation"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"bob@dylan.com",
		"bob+tag@dylan.com",
		"bob.dylan@music.example.org",
	}
	for _, email := range valid {
		assert.NoError(t, validation.ValidateEmail(email), email)
	}

	invalid := []string{
		"",
		"not-an-email",
		"bob@",
		"@dylan.com",
		"bob dylan@music.com",
		strings.Repeat("a", 250) + "@x.com",
	}
	for _, email := range invalid {
		assert.Error(t, validation.ValidateEmail(email), email)
	}
}
