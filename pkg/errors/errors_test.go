package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPath, "test message: %s", "value")

	if err.Code != ErrCodeInvalidPath {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidPath)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_PATH: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidDocument, cause, "failed to parse")

	if err.Code != ErrCodeInvalidDocument {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDocument)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidSyntax, "test"),
			code:     ErrCodeInvalidSyntax,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidSyntax, "test"),
			code:     ErrCodeInvalidDocument,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvalidDocument, New(ErrCodeInvalidSyntax, "inner"), "outer"),
			code:     ErrCodeInvalidDocument,
			expected: true,
		},
		{
			name:     "bare syntax error",
			err:      &SyntaxError{Line: 1, Col: 1, Message: "test"},
			code:     ErrCodeInvalidSyntax,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidSyntax,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidSyntax,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidKind, "test"),
			expected: ErrCodeInvalidKind,
		},
		{
			name:     "SyntaxError type",
			err:      &SyntaxError{Line: 1, Col: 2, Message: "test"},
			expected: ErrCodeInvalidSyntax,
		},
		{
			name:     "wrapped SyntaxError",
			err:      Wrap(ErrCodeInvalidDocument, &SyntaxError{Line: 1, Col: 2, Message: "test"}, "outer"),
			expected: ErrCodeInvalidDocument,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidSyntax, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSyntaxError(t *testing.T) {
	t.Run("message includes position", func(t *testing.T) {
		err := &SyntaxError{Line: 3, Col: 14, Message: "unterminated triple-quoted string"}
		expected := "syntax error at line 3, column 14: unterminated triple-quoted string"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &SyntaxError{Line: 1, Col: 1}
		if err.Code() != ErrCodeInvalidSyntax {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeInvalidSyntax)
		}
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		inner := &SyntaxError{Line: 2, Col: 5, Message: "unexpected token"}
		err := Wrap(ErrCodeInvalidDocument, inner, "parse dashboard-1.json")

		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Fatal("errors.As(err, &se) = false, want true")
		}
		if se.Line != 2 || se.Col != 5 {
			t.Errorf("position = %d:%d, want 2:5", se.Line, se.Col)
		}
	})
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidSyntax,
		ErrCodeInvalidDocument,
		ErrCodeInvalidPath,
		ErrCodeInvalidKind,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFilename,
		ErrCodeInvalidEncoding,
		ErrCodeFileNotFound,
		ErrCodeKindNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
