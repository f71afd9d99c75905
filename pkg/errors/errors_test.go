package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeCapture, "rasterizer produced no output")
	if !strings.Contains(err.Error(), "CAPTURE_FAILED") {
		t.Errorf("Error() missing code: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "rasterizer produced no output") {
		t.Errorf("Error() missing message: %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodePackaging, cause, "building %s", "lezione.pdf")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause with errors.Is")
	}
	if !strings.Contains(err.Error(), "lezione.pdf") {
		t.Errorf("Error() missing context: %s", err.Error())
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrCodeExportInProgress, "export already running")

	if !Is(err, ErrCodeExportInProgress) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeCapture) {
		t.Error("Is should not match a different code")
	}

	// Codes survive further wrapping with %w.
	wrapped := fmt.Errorf("pdf export: %w", err)
	if !Is(wrapped, ErrCodeExportInProgress) {
		t.Error("Is should unwrap fmt.Errorf chains")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeDecode, "bad png")); got != ErrCodeDecode {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeDecode)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeCapture, "impossibile catturare la slide")
	if got := UserMessage(err); got != "impossibile catturare la slide" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
