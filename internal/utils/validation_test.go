package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"abcdefgh", false},
		{"Abcdef12", true},
		{"ABCDEF12", false},
		{"Abcdefgh", false},
		{"Abc12", false},
		{"", false},
		{"Pässwörd9", true},
	}

	for _, c := range cases {
		assert.Equal(t, c.ok, ValidatePassword(c.password), c.password)
	}
}

func TestFirstErrorTranslates(t *testing.T) {
	validate, trans, err := NewValidator()
	require.NoError(t, err)

	var form struct {
		Email string `validate:"required,email"`
	}
	form.Email = "nope"

	err = validate.Struct(form)
	require.Error(t, err)
	assert.Contains(t, FirstError(err, trans), "Email")
}
