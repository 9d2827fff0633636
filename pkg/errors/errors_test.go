package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidMapping, "test message: %s", "value")

	if err.Code != ErrCodeInvalidMapping {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidMapping)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_MAPPING: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodePlacementFailed, cause, "failed to place")

	if err.Code != ErrCodePlacementFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePlacementFailed)
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
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodePlacementFailed,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodePlacementFailed, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodePlacementFailed,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
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
			err:      New(ErrCodeInvalidReference, "test"),
			expected: ErrCodeInvalidReference,
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
			err:      New(ErrCodeInvalidInput, "friendly message"),
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

func TestRecordError(t *testing.T) {
	cause := errors.New("invalid image number")

	t.Run("with record text", func(t *testing.T) {
		err := &RecordError{Line: 4, Record: "abc:1:bottom-left", Err: cause}
		expected := `record 4 ("abc:1:bottom-left"): invalid image number`
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without record text", func(t *testing.T) {
		err := &RecordError{Line: 2, Err: cause}
		expected := "record 2: invalid image number"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		err := &RecordError{Line: 1, Err: cause}
		if !errors.Is(err, cause) {
			t.Error("errors.Is(err, cause) = false, want true")
		}
	})

	t.Run("wrapped in Error", func(t *testing.T) {
		err := Wrap(ErrCodeInvalidMapping, &RecordError{Line: 1, Err: cause}, "decode mapping")
		var rec *RecordError
		if !errors.As(err, &rec) {
			t.Fatal("errors.As(*RecordError) = false, want true")
		}
		if rec.Code() != ErrCodeInvalidRecord {
			t.Errorf("Code() = %v, want %v", rec.Code(), ErrCodeInvalidRecord)
		}
	})
}
