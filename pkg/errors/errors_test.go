package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfig, "probability out of range: %v", 1.5)

	if err.Code != ErrCodeConfig {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeConfig)
	}
	if !strings.Contains(err.Error(), "CONFIG_ERROR") {
		t.Errorf("Error() should contain the code, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "1.5") {
		t.Errorf("Error() should contain the formatted message, got %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("degenerate solve")
	err := Wrap(ErrCodeEffectFailure, cause, "perspective effect failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "degenerate solve") {
		t.Errorf("Error() should include the cause, got %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeUnknownPreset, "no such preset")

	if !Is(err, ErrCodeUnknownPreset) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeConfig) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeConfig) {
		t.Error("Is should not match non-structured errors")
	}

	// Code survives wrapping with fmt.Errorf %w.
	wrapped := fmt.Errorf("apply preset: %w", err)
	if !Is(wrapped, ErrCodeUnknownPreset) {
		t.Error("Is should unwrap fmt.Errorf chains")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidImage, "zero-area image")); got != ErrCodeInvalidImage {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidImage)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPlate, "bad sequence")
	if got := UserMessage(err); got != "bad sequence" {
		t.Errorf("UserMessage = %q, want %q", got, "bad sequence")
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q, want %q", got, "plain failure")
	}
}
