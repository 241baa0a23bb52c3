package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxIdentifierLength = 128
	MaxEmailLength      = 320
	MaxPhoneLength      = 20
	MaxJSONPayload      = 1 << 20
)

// ValidateIdentifier checks a value that will be substituted into a path
// template. The client inserts path values verbatim, so separators and
// whitespace are rejected here.
func ValidateIdentifier(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if n := utf8.RuneCountInString(id); n > MaxIdentifierLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters (got %d)", kind, MaxIdentifierLength, n)
	}
	for _, r := range id {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune("/?#%", r) {
			return fmt.Errorf("invalid %s %q: must not contain whitespace or any of / ? # %%", kind, id)
		}
	}
	return nil
}

// ValidateEmail checks an optional email's length and shape.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if n := utf8.RuneCountInString(email); n > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// ValidatePhone checks an optional phone number's length and characters.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if n := utf8.RuneCountInString(phone); n > MaxPhoneLength {
		return fmt.Errorf("phone number exceeds maximum length of %d characters (got %d)", MaxPhoneLength, n)
	}
	for i, r := range phone {
		if (r == '+' && i == 0) || unicode.IsDigit(r) || r == '-' || r == ' ' {
			continue
		}
		return fmt.Errorf("invalid phone number %q", phone)
	}
	return nil
}

// ValidateJSONPayload caps request bodies read from flags, files or stdin.
func ValidateJSONPayload(data []byte) error {
	if len(data) > MaxJSONPayload {
		return fmt.Errorf("JSON payload exceeds maximum size of %d bytes (got %d)", MaxJSONPayload, len(data))
	}
	return nil
}
