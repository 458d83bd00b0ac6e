package services

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	birthdayLayout = "2006-01-02"

	// maxPasswordBytes is the longest input bcrypt accepts.
	maxPasswordBytes = 72
)

var (
	usernameRules = []validation.Rule{
		validation.Length(3, 0).Error("username must be at least 3 characters long"),
		is.Alphanumeric.Error("username contains non alphanumeric characters"),
	}
	emailRules = []validation.Rule{
		is.EmailFormat.Error("email does not appear to be valid"),
	}
	birthdayRules = []validation.Rule{
		validation.By(checkBirthday),
	}
	passwordRules = []validation.Rule{
		validation.By(checkPasswordLength),
	}
)

// parseBirthday accepts a calendar date or a full RFC 3339 timestamp.
// An empty string yields nil.
func parseBirthday(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{birthdayLayout, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("birthday must be a date like 1990-04-23")
}

func checkBirthday(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	default:
		return nil
	}
	_, err := parseBirthday(raw)
	return err
}

func checkPasswordLength(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case *string:
		if v == nil {
			return nil
		}
		raw = *v
	default:
		return nil
	}
	if len(raw) > maxPasswordBytes {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

func withRequired(msg string, rules []validation.Rule) []validation.Rule {
	out := make([]validation.Rule, 0, len(rules)+1)
	out = append(out, validation.Required.Error(msg))
	return append(out, rules...)
}
