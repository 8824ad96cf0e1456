package secret

import (
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/store"
)

// Finder 是解析 keyring 引用所需的最小能力；*store.Store 满足该接口。
type Finder interface {
	FindPassword(service string) (string, bool, *errors.XError)
}

// 默认使用当前平台的凭据存储。
func defaultFinder() (Finder, *errors.XError) {
	return store.New(store.Options{})
}
