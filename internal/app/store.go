package app

import (
	"log/slog"

	"github.com/zx06/keytar/internal/backend/credman"
	"github.com/zx06/keytar/internal/backend/keyctl"
	"github.com/zx06/keytar/internal/backend/secretservice"
	"github.com/zx06/keytar/internal/config"
	"github.com/zx06/keytar/internal/errors"
	"github.com/zx06/keytar/internal/store"
)

// StoreOptions 把配置文件的 backend 小节转换为 store.Options。
func StoreOptions(cfg config.File, logger *slog.Logger) store.Options {
	b := cfg.Backend
	return store.Options{
		Credman:       credman.Options{Persist: b.Credman.Persist},
		SecretService: secretservice.Options{Collection: b.SecretService.Collection},
		Keyctl:        keyctl.Options{Keyring: b.Keyctl.Keyring, Create: b.Keyctl.CreateKeyring()},
		Logger:        logger,
	}
}

// OpenStore 按配置打开当前平台的凭据存储。
func OpenStore(cfg config.File, logger *slog.Logger) (*store.Store, *errors.XError) {
	return store.New(StoreOptions(cfg, logger))
}
