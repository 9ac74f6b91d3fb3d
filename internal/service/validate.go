package service

import (
	"regexp"
	"strings"
	"unicode"

	"melodex/internal/domain"
)

var (
	usernameCharset = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailShape      = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)
)

const passwordSymbols = "@#$%^&+=!"

// validateUsername enforces the account naming rules, reporting the first
// violated rule.
func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return domain.Validationf("username is required")
	}
	if len(username) < 3 || len(username) > 30 {
		return domain.Validationf("username must be between 3 and 30 characters")
	}
	if !usernameCharset.MatchString(username) {
		return domain.Validationf("username can only contain letters, numbers, and underscores")
	}
	lower := strings.ToLower(username)
	if strings.Contains(lower, "admin") || strings.Contains(lower, "moderator") {
		return domain.Validationf("username contains prohibited terms")
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return domain.Validationf("email is required")
	}
	if len(email) > 255 {
		return domain.Validationf("email is too long")
	}
	if !emailShape.MatchString(email) {
		return domain.Validationf("invalid email format")
	}
	return nil
}

// validatePassword checks strength rules without regex lookaheads: at least
// 8 characters, one upper, one lower, one digit, one symbol, no whitespace.
func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.Validationf("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return domain.Validationf("password is too long")
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return domain.Validationf("password must not contain whitespace")
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	switch {
	case !hasUpper:
		return domain.Validationf("password must contain an uppercase letter")
	case !hasLower:
		return domain.Validationf("password must contain a lowercase letter")
	case !hasDigit:
		return domain.Validationf("password must contain a digit")
	case !hasSymbol:
		return domain.Validationf("password must contain a symbol (%s)", passwordSymbols)
	}
	return nil
}
