// Package keyctl 实现基于 Linux 内核 keyring 的后端（无桌面会话的 headless 环境）。
//
// 条目为 "user" 类型的 key，description 为复合键 service/account，挂在按调用解析的特殊 keyring 上。
package keyctl

import (
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/zx06/keytar/internal/address"
	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

const Name = "keyctl"

// 内核限制：description 最长 4095 字节（含结尾 NUL 共 4096），user key payload 最长 32767 字节。
const (
	MaxDescriptionLen = 4095
	MaxPayloadLen     = 32767
)

const keyTypeUser = "user"

// 可选的 keyring。
const (
	KeyringUser       = "user"
	KeyringSession    = "session"
	KeyringProcess    = "process"
	KeyringPersistent = "persistent"
)

var (
	errKeyNotFound = stderrors.New("key not found")
	errUnsupported = stderrors.New("kernel keyring is only available on linux")
)

// Options 控制使用哪个 keyring。
type Options struct {
	Keyring string // user | session | process | persistent；空则 user
	Create  bool   // keyring 不存在时创建
}

// syscalls 是对 keyctl(2)/add_key(2) 的最小抽象。
// 实现需把 ENOKEY / EKEYREVOKED / EKEYEXPIRED 映射为 errKeyNotFound。
type syscalls interface {
	keyringID(keyring string, create bool) (int32, error)
	addKey(description string, payload []byte, ring int32) (int32, error)
	search(ring int32, description string) (int32, error)
	read(id int32, buf []byte) (int, error)
	describe(id int32, buf []byte) (int, error)
	invalidate(id int32) error
}

type Backend struct {
	opts Options
	sys  syscalls
}

var _ backend.Backend = (*Backend)(nil)

// New 返回使用真实系统调用的后端。
func New(opts Options) (*Backend, error) {
	return newWithSyscalls(opts, nativeSyscalls{})
}

func newWithSyscalls(opts Options, sys syscalls) (*Backend, error) {
	if opts.Keyring == "" {
		opts.Keyring = KeyringUser
	}
	switch opts.Keyring {
	case KeyringUser, KeyringSession, KeyringProcess, KeyringPersistent:
	default:
		return nil, errors.New(errors.CodeCfgInvalid, "unknown kernel keyring", map[string]any{"keyring": opts.Keyring})
	}
	return &Backend{opts: opts, sys: sys}, nil
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Set(addr address.Address, secret string) error {
	desc, err := description(addr)
	if err != nil {
		return err
	}
	// payload 超出内核限制属于存储侧限制，与 Windows blob 上限一样报 BackendFailure。
	if len(secret) == 0 || len(secret) > MaxPayloadLen {
		return errors.BackendFailure(Name, fmt.Sprintf("user key payload must be 1..%d bytes, got %d", MaxPayloadLen, len(secret)), nil)
	}
	ring, err := b.ring()
	if err != nil {
		return err
	}
	// add_key 对同一 keyring 内同类型、同 description 的 key 执行原地更新。
	if _, err := b.sys.addKey(desc, []byte(secret), ring); err != nil {
		return failure("add_key", err)
	}
	return nil
}

func (b *Backend) Get(addr address.Address) (string, bool, error) {
	desc, err := description(addr)
	if err != nil {
		return "", false, err
	}
	ring, err := b.ring()
	if err != nil {
		return "", false, err
	}
	id, found, err := b.search(ring, desc)
	if err != nil || !found {
		return "", false, err
	}
	payload, err := b.readKey(id)
	if stderrors.Is(err, errKeyNotFound) {
		// search 与 read 之间被撤销/失效
		return "", false, nil
	}
	if err != nil {
		return "", false, failure("keyctl_read", err)
	}
	secret, err := backend.DecodeSecret(payload)
	if err != nil {
		return "", false, err
	}
	return secret, true, nil
}

func (b *Backend) Delete(addr address.Address) (bool, error) {
	desc, err := description(addr)
	if err != nil {
		return false, err
	}
	ring, err := b.ring()
	if err != nil {
		return false, err
	}
	id, found, err := b.search(ring, desc)
	if err != nil || !found {
		return false, err
	}
	if err := b.sys.invalidate(id); err != nil {
		if stderrors.Is(err, errKeyNotFound) {
			return false, nil
		}
		return false, failure("keyctl_invalidate", err)
	}
	return true, nil
}

func (b *Backend) FindOne(addr address.Address) (string, bool, error) {
	if addr.HasAccount {
		return b.Get(addr)
	}
	var (
		secret string
		found  bool
	)
	err := b.each(addr.Service, func(rec backend.Record) bool {
		secret, found = rec.Password, true
		return false
	})
	if err != nil {
		return "", false, err
	}
	return secret, found, nil
}

func (b *Backend) FindMany(service string) ([]backend.Record, error) {
	out := []backend.Record{}
	err := b.each(service, func(rec backend.Record) bool {
		out = append(out, rec)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// each 枚举 keyring：读出 4 字节 key serial 列表，逐个 describe，保留 description 以 service/ 开头的 user key，再读取其 payload。
// fn 返回 false 时停止。枚举过程中消失的 key 被跳过。
func (b *Backend) each(service string, fn func(backend.Record) bool) error {
	if n := len(address.ServicePrefix(service)); n > MaxDescriptionLen {
		return descriptionTooLong(n)
	}
	ring, err := b.ring()
	if err != nil {
		return err
	}
	raw, err := readSized(func(buf []byte) (int, error) { return b.sys.read(ring, buf) })
	if err != nil {
		return failure("keyctl_read keyring", err)
	}
	ids, err := parseSerials(raw)
	if err != nil {
		return errors.BackendFailure(Name, err.Error(), err)
	}

	prefix := address.ServicePrefix(service)
	for _, id := range ids {
		rawDesc, err := readSized(func(buf []byte) (int, error) { return b.sys.describe(id, buf) })
		if stderrors.Is(err, errKeyNotFound) {
			continue
		}
		if err != nil {
			return failure("keyctl_describe", err)
		}
		typ, desc, ok := parseDescription(rawDesc)
		if !ok || typ != keyTypeUser || !strings.HasPrefix(desc, prefix) {
			continue
		}
		payload, err := b.readKey(id)
		if stderrors.Is(err, errKeyNotFound) {
			continue
		}
		if err != nil {
			return failure("keyctl_read", err)
		}
		secret, err := backend.DecodeSecret(payload)
		if err != nil {
			return err
		}
		if !fn(backend.Record{Account: address.AccountFromLabel(service, desc), Password: secret}) {
			return nil
		}
	}
	return nil
}

func (b *Backend) ring() (int32, error) {
	id, err := b.sys.keyringID(b.opts.Keyring, b.opts.Create)
	if err != nil {
		return 0, failure("keyctl_get_keyring_id "+b.opts.Keyring, err)
	}
	return id, nil
}

func (b *Backend) search(ring int32, desc string) (int32, bool, error) {
	id, err := b.sys.search(ring, desc)
	if stderrors.Is(err, errKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, failure("keyctl_search", err)
	}
	return id, true, nil
}

func (b *Backend) readKey(id int32) ([]byte, error) {
	return readSized(func(buf []byte) (int, error) { return b.sys.read(id, buf) })
}

// readSized 实现“先问大小、再分配、再读取”的两段式读取。
// 内核总是返回 payload 的真实长度；若它大于缓冲区（两次调用之间 payload 变大），就按新长度重试，直到稳定。
func readSized(read func(buf []byte) (int, error)) ([]byte, error) {
	n, err := read(nil)
	if err != nil {
		return nil, err
	}
	for {
		buf := make([]byte, n)
		got, err := read(buf)
		if err != nil {
			return nil, err
		}
		if got <= len(buf) {
			return buf[:got], nil
		}
		n = got
	}
}

// parseSerials 将 keyring 内容解析为 key serial 列表（本机字节序的 int32）。
func parseSerials(raw []byte) ([]int32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("keyring payload length %d is not a multiple of 4", len(raw))
	}
	ids := make([]int32, 0, len(raw)/4)
	for i := 0; i < len(raw); i += 4 {
		ids = append(ids, int32(binary.NativeEndian.Uint32(raw[i:i+4])))
	}
	return ids, nil
}

// parseDescription 解析 KEYCTL_DESCRIBE 输出 "type;uid;gid;perm;description"。
// description 自身可能包含 ';'，因此只切前四个分隔符。
func parseDescription(raw []byte) (typ, desc string, ok bool) {
	s := strings.TrimRight(string(raw), "\x00")
	parts := strings.SplitN(s, ";", 5)
	if len(parts) != 5 {
		return "", "", false
	}
	return parts[0], parts[4], true
}

func description(addr address.Address) (string, error) {
	desc := addr.Key()
	if len(desc) > MaxDescriptionLen {
		return "", descriptionTooLong(len(desc))
	}
	return desc, nil
}

func descriptionTooLong(n int) *errors.XError {
	return errors.InvalidArgument("key description exceeds kernel limit", map[string]any{
		"length": n,
		"max":    MaxDescriptionLen,
	})
}

func failure(op string, err error) *errors.XError {
	return errors.BackendFailure(Name, op+": "+err.Error(), err)
}
