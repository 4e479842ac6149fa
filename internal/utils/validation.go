package utils

import (
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const MinPasswordLength = 8

// ValidatePassword reports whether password has an upper case letter, a lower case
// letter, a digit and at least MinPasswordLength characters.
func ValidatePassword(password string) bool {
	var hasUpper, hasLower, hasDigit bool
	n := 0
	for _, c := range password {
		n++
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	return n >= MinPasswordLength && hasUpper && hasLower && hasDigit
}

// NewValidator builds a validator whose errors translate to English messages.
func NewValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}
	return validate, trans, nil
}

// FirstError renders the first validation failure of err, or err itself.
func FirstError(err error, trans ut.Translator) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err.Error()
	}
	return validationErrors[0].Translate(trans)
}
