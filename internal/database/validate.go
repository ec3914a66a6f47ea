package database

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thereayou/microblog/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,64}$`)

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-64 letters, digits, '_', '.' or '-'", ErrInvalidInput)
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 120 {
		return fmt.Errorf("%w: email must not exceed 120 characters", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil || strings.ContainsAny(email, " <>") {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	return nil
}

func validateAboutMe(about string) error {
	if utf8.RuneCountInString(about) > 140 {
		return fmt.Errorf("%w: about_me must not exceed 140 characters", ErrInvalidInput)
	}
	return nil
}

func validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: post body is empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > models.MaxPostLength {
		return fmt.Errorf("%w: post body must not exceed %d characters", ErrInvalidInput, models.MaxPostLength)
	}
	return nil
}
