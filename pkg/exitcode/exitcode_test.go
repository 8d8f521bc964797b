package exitcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeConstants(t *testing.T) {
	want := map[string]int{
		"Success":           0,
		"GeneralError":      1,
		"ConfigError":       2,
		"ValidationError":   3,
		"FileSystemError":   4,
		"PermissionError":   6,
		"UnsupportedFormat": 8,
	}
	got := map[string]int{
		"Success":           Success,
		"GeneralError":      GeneralError,
		"ConfigError":       ConfigError,
		"ValidationError":   ValidationError,
		"FileSystemError":   FileSystemError,
		"PermissionError":   PermissionError,
		"UnsupportedFormat": UnsupportedFormat,
	}
	for name, code := range want {
		if got[name] != code {
			t.Errorf("%s = %d, expected %d", name, got[name], code)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{ValidationError, "Validation error"},
		{FileSystemError, "File system error"},
		{PermissionError, "Permission error"},
		{UnsupportedFormat, "Unsupported format"},
		{99, "Unknown error"},
		{-1, "Unknown error"},
	}
	for _, tt := range tests {
		if got := String(tt.code); got != tt.expected {
			t.Errorf("String(%d) = %q, expected %q", tt.code, got, tt.expected)
		}
	}
}

func TestWrap(t *testing.T) {
	if Wrap(FileSystemError, nil) != nil {
		t.Error("Wrap(nil) should stay nil")
	}

	base := errors.New("boom")
	err := fmt.Errorf("outer: %w", Wrap(FileSystemError, base))

	var ee *ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("errors.As failed for %v", err)
	}
	if ee.Code != FileSystemError {
		t.Errorf("code = %d, want %d", ee.Code, FileSystemError)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to base")
	}
	if (&ExitError{Code: ConfigError}).Error() != "Configuration error" {
		t.Error("ExitError without Err should describe the code")
	}
}
