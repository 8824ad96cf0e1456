package backendtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/errors"
)

func TestMemory_Conformance(t *testing.T) {
	Run(t, NewMemory())
}

func TestMemory_FailWith(t *testing.T) {
	m := NewMemory()
	m.FailWith = BackendFailure("disk on fire")

	err := m.Set(address.New("svc", "acct"), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBackendFailure))

	_, _, err = m.Get(address.New("svc", "acct"))
	assert.Error(t, err)
	_, err = m.Delete(address.New("svc", "acct"))
	assert.Error(t, err)
	_, err = m.FindMany("svc")
	assert.Error(t, err)
}

func TestMemory_Len(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(address.New("a", "1"), "x"))
	require.NoError(t, m.Set(address.New("a", "2"), "y"))
	require.NoError(t, m.Set(address.New("b", "1"), "z"))
	assert.Equal(t, 3, m.Len())

	deleted, err := m.Delete(address.New("a", "1"))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 2, m.Len())
}
