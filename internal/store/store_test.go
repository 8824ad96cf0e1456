package store

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/backend/backendtest"
	"github.com/zx06/keytar/internal/errors"
)

func newTestStore(t *testing.T) (*Store, *backendtest.Memory, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mem := backendtest.NewMemory()
	return NewWithBackend(mem, logger), mem, &buf
}

func TestExampleFlow(t *testing.T) {
	s, _, _ := newTestStore(t)

	ok, xe := s.SetPassword("myapp", "alice", "s3cr3t")
	require.Nil(t, xe)
	assert.True(t, ok)

	got, found, xe := s.GetPassword("myapp", "alice")
	require.Nil(t, xe)
	require.True(t, found)
	assert.Equal(t, "s3cr3t", got)

	deleted, xe := s.DeletePassword("myapp", "alice")
	require.Nil(t, xe)
	assert.True(t, deleted)

	_, found, xe = s.GetPassword("myapp", "alice")
	require.Nil(t, xe)
	assert.False(t, found)

	deleted, xe = s.DeletePassword("myapp", "alice")
	require.Nil(t, xe)
	assert.False(t, deleted)
}

func TestValidation(t *testing.T) {
	s, mem, _ := newTestStore(t)
	cases := []struct {
		name string
		call func() *errors.XError
	}{
		{"set empty service", func() *errors.XError { _, xe := s.SetPassword("", "a", "p"); return xe }},
		{"set invalid secret", func() *errors.XError { _, xe := s.SetPassword("svc", "a", "\xff"); return xe }},
		{"set NUL account", func() *errors.XError { _, xe := s.SetPassword("svc", "a\x00", "p"); return xe }},
		{"get empty service", func() *errors.XError { _, _, xe := s.GetPassword("", "a"); return xe }},
		{"get invalid account", func() *errors.XError { _, _, xe := s.GetPassword("svc", "\xc3"); return xe }},
		{"delete empty service", func() *errors.XError { _, xe := s.DeletePassword("", "a"); return xe }},
		{"find empty", func() *errors.XError { _, _, xe := s.FindPassword(""); return xe }},
		{"find leading slash", func() *errors.XError { _, _, xe := s.FindPassword("/acct"); return xe }},
		{"find_credentials empty", func() *errors.XError { _, xe := s.FindCredentials(""); return xe }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			xe := tc.call()
			require.NotNil(t, xe)
			assert.Equal(t, errors.CodeInvalidArgument, xe.Code)
		})
	}
	assert.Zero(t, mem.Len(), "validation failures must not reach the backend")
}

func TestEmptyAccountIsAllowed(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, xe := s.SetPassword("svc", "", "pw")
	require.Nil(t, xe)

	got, found, xe := s.GetPassword("svc", "")
	require.Nil(t, xe)
	require.True(t, found)
	assert.Equal(t, "pw", got)
}

func TestFindPassword_SplitsOnFirstSlash(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, xe := s.SetPassword("svc", "team/alice", "pw")
	require.Nil(t, xe)

	got, found, xe := s.FindPassword("svc/team/alice")
	require.Nil(t, xe)
	require.True(t, found)
	assert.Equal(t, "pw", got)

	got, found, xe = s.FindPassword("svc")
	require.Nil(t, xe)
	require.True(t, found)
	assert.Equal(t, "pw", got)

	_, found, xe = s.FindPassword("other")
	require.Nil(t, xe)
	assert.False(t, found)
}

func TestFindCredentials(t *testing.T) {
	s, _, _ := newTestStore(t)
	recs, xe := s.FindCredentials("svc")
	require.Nil(t, xe)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)

	for i := 0; i < 3; i++ {
		_, xe := s.SetPassword("svc", fmt.Sprintf("acct%d", i), fmt.Sprintf("pw%d", i))
		require.Nil(t, xe)
	}
	_, xe = s.SetPassword("svc-other", "x", "y")
	require.Nil(t, xe)

	recs, xe = s.FindCredentials("svc")
	require.Nil(t, xe)
	assert.ElementsMatch(t, []backend.Record{
		{Account: "acct0", Password: "pw0"},
		{Account: "acct1", Password: "pw1"},
		{Account: "acct2", Password: "pw2"},
	}, recs)
}

func TestBackendFailureIsPropagated(t *testing.T) {
	s, mem, _ := newTestStore(t)
	mem.FailWith = backendtest.BackendFailure("dbus: connection refused")

	_, xe := s.SetPassword("svc", "a", "p")
	require.NotNil(t, xe)
	assert.Equal(t, errors.CodeBackendFailure, xe.Code)
	assert.Equal(t, "memory", xe.Details["backend"])

	_, xe = s.FindCredentials("svc")
	require.NotNil(t, xe)
	assert.Equal(t, errors.CodeBackendFailure, xe.Code)
}

func TestNonXErrorIsWrappedAsInternal(t *testing.T) {
	s, mem, _ := newTestStore(t)
	mem.FailWith = fmt.Errorf("boom")

	_, _, xe := s.GetPassword("svc", "a")
	require.NotNil(t, xe)
	assert.Equal(t, errors.CodeInternal, xe.Code)
}

func TestSecretsAreNeverLogged(t *testing.T) {
	s, mem, buf := newTestStore(t)
	const secret = "hunter2-very-secret"
	_, xe := s.SetPassword("svc", "alice", secret)
	require.Nil(t, xe)
	_, _, xe = s.GetPassword("svc", "alice")
	require.Nil(t, xe)
	_, xe = s.FindCredentials("svc")
	require.Nil(t, xe)
	mem.FailWith = backendtest.BackendFailure("native failure")
	_, _, _ = s.FindPassword("svc/alice")

	out := buf.String()
	assert.Contains(t, out, "op=set")
	assert.Contains(t, out, "op=find_many")
	assert.Contains(t, out, "backend=memory")
	assert.Contains(t, out, "code=KEYTAR_BACKEND_FAILURE")
	assert.False(t, strings.Contains(out, secret), "secret leaked into log output")
}

func TestConcurrentUse(t *testing.T) {
	s, _, _ := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acct := fmt.Sprintf("acct%d", i)
			_, xe := s.SetPassword("svc", acct, "pw")
			assert.Nil(t, xe)
			_, found, xe := s.GetPassword("svc", acct)
			assert.Nil(t, xe)
			assert.True(t, found)
		}(i)
	}
	wg.Wait()

	recs, xe := s.FindCredentials("svc")
	require.Nil(t, xe)
	assert.Len(t, recs, 16)
}

func TestBackendName(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.Equal(t, "memory", s.Backend())
}
