package common

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestAppErrorChain(t *testing.T) {
	err := IOError("open container", os.ErrNotExist)
	if !errors.Is(err, ErrIO) {
		t.Error("IOError must match ErrIO")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("IOError must preserve the cause")
	}
	if !strings.Contains(err.Error(), "IO_ERROR") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestFormatError(t *testing.T) {
	err := FormatError("missing document element", nil)
	if !errors.Is(err, ErrFormat) {
		t.Error("FormatError must match ErrFormat")
	}
	if errors.Is(err, ErrIO) {
		t.Error("FormatError must not match ErrIO")
	}

	cause := errors.New("unexpected EOF")
	err = FormatError("malformed container", cause)
	if !errors.Is(err, cause) {
		t.Error("FormatError must preserve the cause")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) must be nil")
	}
	base := errors.New("boom")
	wrapped := WrapError(base, "append record")
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error must match base")
	}
}
