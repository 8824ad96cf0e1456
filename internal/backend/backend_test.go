package backend

import (
	"testing"

	"github.com/zx06/keytar/internal/errors"
)

func TestDecodeSecret(t *testing.T) {
	got, err := DecodeSecret([]byte("「こんにちは世界」"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "「こんにちは世界」" {
		t.Fatalf("got %q", got)
	}

	got, err = DecodeSecret(nil)
	if err != nil || got != "" {
		t.Fatalf("empty payload: got %q err %v", got, err)
	}
}

func TestDecodeSecret_Invalid(t *testing.T) {
	_, err := DecodeSecret([]byte{'o', 'k', 0xff, 'x'})
	if err == nil {
		t.Fatal("expected error")
	}
	xe, ok := errors.As(err)
	if !ok || xe.Code != errors.CodeEncodingFailure {
		t.Fatalf("expected KEYTAR_ENCODING_FAILURE, got %v", err)
	}
	if xe.Details["details"] != "invalid UTF-8 sequence at byte offset 2" {
		t.Fatalf("details=%v", xe.Details["details"])
	}
}
