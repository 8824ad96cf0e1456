package backendtest

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
)

// Run 对任意 Backend 执行契约测试。
// 使用带时间戳的 service 名，并在结束时清理写入的条目，可安全用于真实的 OS 凭据存储。
func Run(t *testing.T, b backend.Backend) {
	t.Helper()
	prefix := fmt.Sprintf("keytar-test-%d", time.Now().UnixNano())

	service := func(t *testing.T, name string) string {
		svc := prefix + "-" + name
		t.Cleanup(func() {
			recs, err := b.FindMany(svc)
			if err != nil {
				return
			}
			for _, r := range recs {
				_, _ = b.Delete(address.New(svc, r.Account))
			}
		})
		return svc
	}

	t.Run("RoundTrip", func(t *testing.T) {
		svc := service(t, "roundtrip")
		secrets := []string{
			"s3cr3t",
			"I 💔 ASCII",
			"🌞🌙🌟🌴",
			"「こんにちは世界」",
			"ᚻᛖ ᚳᚹᚫᚦ ᚦᚫᛏ ᚻᛖ ᛒᚢᛞᛖ",
			"pass word\twith tab",
		}
		for i, secret := range secrets {
			addr := address.New(svc, fmt.Sprintf("acct%d", i))
			require.NoError(t, b.Set(addr, secret))
			got, found, err := b.Get(addr)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, secret, got)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		svc := service(t, "overwrite")
		addr := address.New(svc, "alice")
		require.NoError(t, b.Set(addr, "first"))
		require.NoError(t, b.Set(addr, "second"))
		got, found, err := b.Get(addr)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "second", got)

		recs, err := b.FindMany(svc)
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("AbsenceIsNotError", func(t *testing.T) {
		svc := service(t, "absent")
		got, found, err := b.Get(address.New(svc, "nobody"))
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, got)
	})

	t.Run("DeleteNeverSet", func(t *testing.T) {
		svc := service(t, "delete-never")
		deleted, err := b.Delete(address.New(svc, "nobody"))
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("DeleteThenDelete", func(t *testing.T) {
		svc := service(t, "delete-twice")
		addr := address.New(svc, "alice")
		require.NoError(t, b.Set(addr, "s3cr3t"))

		deleted, err := b.Delete(addr)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = b.Delete(addr)
		require.NoError(t, err)
		assert.False(t, deleted)

		_, found, err := b.Get(addr)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("EnumerationCompleteness", func(t *testing.T) {
		svc := service(t, "enum")
		want := map[string]string{
			"alice": "a-secret",
			"bob":   "b-secret",
			"carol": "c-secret",
			"dave":  "d-secret",
		}
		for acct, secret := range want {
			require.NoError(t, b.Set(address.New(svc, acct), secret))
		}

		recs, err := b.FindMany(svc)
		require.NoError(t, err)
		require.Len(t, recs, len(want))
		got := make(map[string]string, len(recs))
		for _, r := range recs {
			got[r.Account] = r.Password
		}
		assert.Equal(t, want, got)
	})

	t.Run("EnumerationEmpty", func(t *testing.T) {
		svc := service(t, "enum-empty")
		recs, err := b.FindMany(svc)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("EnumerationIsolatesServicePrefix", func(t *testing.T) {
		svc := service(t, "iso")
		longer := service(t, "iso-longer")
		require.NoError(t, b.Set(address.New(svc, "alice"), "one"))
		require.NoError(t, b.Set(address.New(longer, "alice"), "two"))

		recs, err := b.FindMany(svc)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, backend.Record{Account: "alice", Password: "one"}, recs[0])
	})

	t.Run("FindOne", func(t *testing.T) {
		svc := service(t, "findone")
		require.NoError(t, b.Set(address.New(svc, "alice"), "a-secret"))

		got, found, err := b.FindOne(address.Parse(address.Compose(svc, "alice")))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "a-secret", got)

		got, found, err = b.FindOne(address.Parse(svc))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "a-secret", got)

		_, found, err = b.FindOne(address.Parse(address.Compose(svc, "nobody")))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("AccountWithSlash", func(t *testing.T) {
		svc := service(t, "slash")
		addr := address.New(svc, "team/alice")
		require.NoError(t, b.Set(addr, "nested"))

		got, found, err := b.Get(addr)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "nested", got)

		// find_password 按第一个 "/" 拆分：svc + "/team/alice" -> (svc, "team/alice")。
		got, found, err = b.FindOne(address.Parse(address.Compose(svc, "team/alice")))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "nested", got)

		recs, err := b.FindMany(svc)
		require.NoError(t, err)
		accounts := make([]string, 0, len(recs))
		for _, r := range recs {
			accounts = append(accounts, r.Account)
		}
		sort.Strings(accounts)
		assert.Equal(t, []string{"team/alice"}, accounts)
	})

	t.Run("ExampleFlow", func(t *testing.T) {
		svc := service(t, "myapp")
		addr := address.New(svc, "alice")
		require.NoError(t, b.Set(addr, "s3cr3t"))

		got, found, err := b.Get(addr)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "s3cr3t", got)

		deleted, err := b.Delete(addr)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, found, err = b.Get(addr)
		require.NoError(t, err)
		assert.False(t, found)
	})
}
