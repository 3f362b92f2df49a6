package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "10", false},
		{"word", "ste_start", false},
		{"dashes and dots", "an1.s-3", false},
		{"unicode", "zustand-ä", false},
		{"spaces", "state one", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxIdentifierLength+1), true},
		{"quote", `a"b`, true},
		{"apostrophe", "a'b", true},
		{"less than", "a<b", true},
		{"greater than", "a>b", true},
		{"ampersand", "a&b", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"invalid utf8", "foo\xffbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier("state", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidIdentifier) {
				t.Errorf("ValidateIdentifier(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidIdentifier)
			}
		})
	}
}

func TestValidateIdentifierMessageNamesKind(t *testing.T) {
	err := ValidateIdentifier("report code", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "report code") {
		t.Errorf("message should name the kind: %v", err)
	}
}
