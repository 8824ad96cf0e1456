package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		code Code
		want ExitCode
	}{
		{CodeNotFound, ExitNotFound},
		{CodeCfgNotFound, ExitConfig},
		{CodeCfgInvalid, ExitConfig},
		{CodeInvalidArgument, ExitConfig},
		{CodeBackendFailure, ExitBackend},
		{CodeEncodingFailure, ExitEncoding},
		{CodeInternal, ExitInternal},
		{Code("UNKNOWN_CODE"), ExitInternal}, // unknown code
	}
	for _, tc := range cases {
		if got := ExitCodeFor(tc.code); got != tc.want {
			t.Errorf("ExitCodeFor(%s)=%d want %d", tc.code, got, tc.want)
		}
	}
}

func TestXError_Error(t *testing.T) {
	// Without cause
	xe := New(CodeCfgInvalid, "test message", nil)
	expected := "KEYTAR_CFG_INVALID: test message"
	if xe.Error() != expected {
		t.Errorf("Error()=%q, want %q", xe.Error(), expected)
	}

	// With cause
	cause := stderrors.New("underlying error")
	xe = Wrap(CodeBackendFailure, "write failed", nil, cause)
	expected = "KEYTAR_BACKEND_FAILURE: write failed: underlying error"
	if xe.Error() != expected {
		t.Errorf("Error()=%q, want %q", xe.Error(), expected)
	}

	// Nil error
	var nilErr *XError
	if nilErr.Error() != "" {
		t.Errorf("nil XError.Error() should return empty string")
	}
}

func TestXError_Unwrap(t *testing.T) {
	cause := stderrors.New("cause")
	xe := Wrap(CodeBackendFailure, "msg", nil, cause)
	if xe.Unwrap() != cause {
		t.Error("Unwrap should return cause")
	}

	xe2 := New(CodeCfgInvalid, "msg", nil)
	if xe2.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestBackendFailure_Details(t *testing.T) {
	cause := stderrors.New("Element not found.")
	xe := BackendFailure("credman", "CredWriteW: Element not found.", cause)
	if xe.Code != CodeBackendFailure {
		t.Fatalf("code=%s", xe.Code)
	}
	if xe.Details["backend"] != "credman" {
		t.Errorf("backend detail=%v", xe.Details["backend"])
	}
	if xe.Details["details"] != "CredWriteW: Element not found." {
		t.Errorf("details detail=%v", xe.Details["details"])
	}
	if !stderrors.Is(xe, cause) {
		t.Error("BackendFailure should wrap its cause")
	}
}

func TestEncodingFailure_Details(t *testing.T) {
	xe := EncodingFailure("invalid byte at offset 3", nil)
	if xe.Code != CodeEncodingFailure {
		t.Fatalf("code=%s", xe.Code)
	}
	if xe.Details["details"] != "invalid byte at offset 3" {
		t.Errorf("details=%v", xe.Details["details"])
	}
}

func TestInvalidArgument(t *testing.T) {
	xe := InvalidArgument("service is required", map[string]any{"field": "service"})
	if xe.Code != CodeInvalidArgument {
		t.Fatalf("code=%s", xe.Code)
	}
	if xe.Details["field"] != "service" {
		t.Errorf("field=%v", xe.Details["field"])
	}
}

func TestAs(t *testing.T) {
	xe := New(CodeCfgInvalid, "test", nil)
	got, ok := As(xe)
	if !ok || got != xe {
		t.Error("As should return XError")
	}

	// Wrapped error
	wrapped := stderrors.Join(stderrors.New("prefix"), xe)
	got, ok = As(wrapped)
	if !ok || got != xe {
		t.Error("As should unwrap to find XError")
	}

	// Non-XError
	_, ok = As(stderrors.New("plain error"))
	if ok {
		t.Error("As should return false for non-XError")
	}
}

func TestAsOrWrap(t *testing.T) {
	plain := stderrors.New("boom")
	xe := AsOrWrap(plain)
	if xe.Code != CodeInternal || xe.Message != "boom" {
		t.Fatalf("unexpected wrap: %+v", xe)
	}
	orig := InvalidArgument("bad", nil)
	if AsOrWrap(orig) != orig {
		t.Fatal("AsOrWrap should return the XError unchanged")
	}
}

func TestIs(t *testing.T) {
	if !Is(EncodingFailure("x", nil), CodeEncodingFailure) {
		t.Error("Is should match code")
	}
	if Is(EncodingFailure("x", nil), CodeBackendFailure) {
		t.Error("Is should not match other code")
	}
	if Is(stderrors.New("plain"), CodeInternal) {
		t.Error("Is should be false for plain errors")
	}
}

func TestAllCodes(t *testing.T) {
	codes := AllCodes()
	if len(codes) != 7 {
		t.Errorf("AllCodes() should return 7 codes, got %d", len(codes))
	}

	// Check for duplicates
	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("Duplicate code: %s", c)
		}
		seen[c] = true
	}
}
