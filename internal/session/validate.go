package session

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLen     = 2
	minPhoneDigits = 10
	minPasswordLen = 6
)

// Field names used by validation errors.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldPassword = "password"
)

// ValidateRegistration returns one error per invalid field, in form order.
func ValidateRegistration(r Registration) []*Error {
	var errs []*Error
	if len([]rune(strings.TrimSpace(r.Name))) < minNameLen {
		errs = append(errs, ValidationError(FieldName, "El nombre debe tener al menos 2 caracteres"))
	}
	if !ValidEmail(r.Email) {
		errs = append(errs, ValidationError(FieldEmail, "Ingresa un email válido"))
	}
	if len(DigitsOnly(r.Phone)) < minPhoneDigits {
		errs = append(errs, ValidationError(FieldPhone, "Ingresa un teléfono válido (10 dígitos mínimo)"))
	}
	if len([]rune(r.Password)) < minPasswordLen {
		errs = append(errs, ValidationError(FieldPassword, "La contraseña debe tener al menos 6 caracteres"))
	}
	return errs
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Normalize trims the name, lower-cases the email and strips the phone to digits.
func (r Registration) Normalize() Registration {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = DigitsOnly(r.Phone)
	return r
}
