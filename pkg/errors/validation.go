package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxIdentifierLength bounds element, network, and report identifiers.
const MaxIdentifierLength = 256

// markupUnsafe lists the characters that cannot appear verbatim inside an
// ANML attribute value.
const markupUnsafe = `<>&"'`

// ValidateIdentifier checks that id can be rendered verbatim as an ANML
// attribute value. kind names the thing being validated ("state",
// "counter", "network", "report code") and is used in the message.
//
// The validation rules:
//   - No empty identifiers
//   - Valid UTF-8, no control characters
//   - None of < > & " '
//   - Maximum length of MaxIdentifierLength bytes
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "%s id cannot be empty", kind)
	}

	if len(id) > MaxIdentifierLength {
		return New(ErrCodeInvalidIdentifier, "%s id too long (max %d characters)", kind, MaxIdentifierLength)
	}

	if !utf8.ValidString(id) {
		return New(ErrCodeInvalidIdentifier, "%s id %q is not valid UTF-8", kind, id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "%s id %q contains control characters", kind, id)
		}
	}

	if i := strings.IndexAny(id, markupUnsafe); i >= 0 {
		return New(ErrCodeInvalidIdentifier, "%s id %q contains markup character %q", kind, id, id[i])
	}

	return nil
}
