package app

import (
	"testing"

	"github.com/zx06/keytar/internal/config"
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/output"
)

func TestBuildSpecHasSchemaVersion(t *testing.T) {
	a := New("1.2.3")
	s := a.BuildSpec("memory")
	if s.SchemaVersion != output.SchemaVersion {
		t.Fatalf("schema_version=%d", s.SchemaVersion)
	}
	if s.Backend.Name != "memory" || !s.Backend.Enumerate || !s.Backend.EmptyAccount {
		t.Fatalf("backend=%+v", s.Backend)
	}
	if len(s.ErrorCodes) != len(errors.AllCodes()) {
		t.Fatalf("error_codes=%v", s.ErrorCodes)
	}
	for _, c := range s.ErrorCodes {
		if c.ExitCode != errors.ExitCodeFor(c.Code) {
			t.Fatalf("code %s: exit_code=%d", c.Code, c.ExitCode)
		}
	}
	names := map[string]bool{}
	for _, c := range s.Commands {
		names[c.Name] = true
	}
	for _, want := range []string{"get", "set", "delete", "find", "version", "spec", "mcp server"} {
		if !names[want] {
			t.Fatalf("missing command %q", want)
		}
	}
}

func TestDescribeBackend(t *testing.T) {
	tests := []struct {
		name         string
		enumerate    bool
		emptyAccount bool
		maxSecret    int
	}{
		{"credman", true, true, 2560},
		{"keyctl", true, true, 32767},
		{"keychain", true, false, 0},
		{"keychain-cli", false, true, 0},
		{"secret-service", true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DescribeBackend(tt.name)
			if b.Name != tt.name || b.Enumerate != tt.enumerate || b.EmptyAccount != tt.emptyAccount || b.MaxSecretBytes != tt.maxSecret {
				t.Fatalf("DescribeBackend(%q)=%+v", tt.name, b)
			}
		})
	}
}

func TestBuildSpecDoesNotShareGlobalFlags(t *testing.T) {
	s := New("dev").BuildSpec("memory")
	for _, c := range s.Commands {
		if c.Name == "get" && len(c.Flags) != 3 {
			t.Fatalf("get flags=%v", c.Flags)
		}
	}
}

func TestVersionInfo(t *testing.T) {
	a := New("1.2.3")
	v := a.VersionInfo("keyctl")
	if v.Version != "1.2.3" || v.Backend != "keyctl" {
		t.Fatalf("unexpected: %+v", v)
	}
}

func TestStoreOptions(t *testing.T) {
	no := false
	cfg := config.File{Backend: config.BackendConfig{
		Credman:       config.CredmanConfig{Persist: "session"},
		SecretService: config.SecretServiceConfig{Collection: "login"},
		Keyctl:        config.KeyctlConfig{Keyring: "session", Create: &no},
	}}
	opts := StoreOptions(cfg, nil)
	if opts.Credman.Persist != "session" || opts.SecretService.Collection != "login" {
		t.Fatalf("opts=%+v", opts)
	}
	if opts.Keyctl.Keyring != "session" || opts.Keyctl.Create {
		t.Fatalf("keyctl=%+v", opts.Keyctl)
	}

	opts = StoreOptions(config.File{}, nil)
	if !opts.Keyctl.Create {
		t.Fatal("keyctl.create must default to true")
	}
}
