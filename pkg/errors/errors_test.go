package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeUnsupportedValue, "cannot convert %q", "x")
	if err.Code != ErrCodeUnsupportedValue {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeUnsupportedValue)
	}
	if !strings.Contains(err.Error(), "UNSUPPORTED_VALUE") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if !strings.Contains(err.Error(), `cannot convert "x"`) {
		t.Errorf("Error() = %q, want formatted message", err.Error())
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeMalformedTrace, cause, "parse trace")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to cause")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q, want cause message", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeDuplicateComponent, "dup"), ErrCodeDuplicateComponent, true},
		{"different code", New(ErrCodeDuplicateComponent, "dup"), ErrCodeShadowedParameter, false},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
		{"wrapped", Wrap(ErrCodeDependencyMismatch, stderrors.New("x"), "dep"), ErrCodeDependencyMismatch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNoSelection, "none")); got != ErrCodeNoSelection {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeNoSelection)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "flow abc not found")
	if got := UserMessage(err); got != "flow abc not found" {
		t.Errorf("UserMessage = %q, want message without code", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage = %q, want %q", got, "plain failure")
	}
}

func TestValidateComponentKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple", "estimator", false},
		{"with underscore", "base_estimator", false},
		{"empty", "", true},
		{"comma", "a,b", true},
		{"parens", "a(b)", true},
		{"equals", "a=b", true},
		{"control char", "a\x00b", true},
		{"too long", strings.Repeat("k", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComponentKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateComponentKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("error code = %q, want %q", GetCode(err), ErrCodeInvalidKey)
			}
		})
	}
}
