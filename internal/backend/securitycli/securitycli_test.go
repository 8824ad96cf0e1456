package securitycli

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/errors"
)

func TestRoundTrip(t *testing.T) {
	keyring.MockInit()
	b := New()
	addr := address.New("svc", "alice")

	_, found, err := b.Get(addr)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Set(addr, "🌞🌙"))
	require.NoError(t, b.Set(addr, "second"))

	got, found, err := b.Get(addr)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", got)

	got, found, err = b.FindOne(address.Parse("svc/alice"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", got)

	deleted, err := b.Delete(addr)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = b.Delete(addr)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestEnumerationUnsupported(t *testing.T) {
	keyring.MockInit()
	b := New()

	_, err := b.FindMany("svc")
	require.True(t, errors.Is(err, errors.CodeBackendFailure), "got %v", err)
	xe, _ := errors.As(err)
	assert.Equal(t, Name, xe.Details["backend"])
	assert.Contains(t, xe.Details["details"], "cgo")

	_, _, err = b.FindOne(address.Parse("svc"))
	assert.True(t, errors.Is(err, errors.CodeBackendFailure))
}

func TestNativeFailure(t *testing.T) {
	keyring.MockInitWithError(stderrors.New("security: SecKeychainSearchCopyNext failed"))
	b := New()

	err := b.Set(address.New("svc", "acct"), "pw")
	assert.True(t, errors.Is(err, errors.CodeBackendFailure), "got %v", err)
	_, _, err = b.Get(address.New("svc", "acct"))
	assert.True(t, errors.Is(err, errors.CodeBackendFailure), "got %v", err)
}
