//go:build linux

package keyctl

import (
	stderrors "errors"
	"fmt"

	"golang.org/x/sys/unix"
)

type nativeSyscalls struct{}

func (nativeSyscalls) keyringID(keyring string, create bool) (int32, error) {
	if keyring == KeyringPersistent {
		// 当前用户（-1）的持久 keyring，链接到会话 keyring 以便后续查找。
		id, err := unix.KeyctlInt(unix.KEYCTL_GET_PERSISTENT, -1, unix.KEY_SPEC_SESSION_KEYRING, 0, 0)
		return int32(id), mapErrno(err)
	}
	var special int
	switch keyring {
	case KeyringUser:
		special = unix.KEY_SPEC_USER_KEYRING
	case KeyringSession:
		special = unix.KEY_SPEC_SESSION_KEYRING
	case KeyringProcess:
		special = unix.KEY_SPEC_PROCESS_KEYRING
	default:
		return 0, fmt.Errorf("unknown keyring %q", keyring)
	}
	id, err := unix.KeyctlGetKeyringID(special, create)
	return int32(id), mapErrno(err)
}

func (nativeSyscalls) addKey(description string, payload []byte, ring int32) (int32, error) {
	id, err := unix.AddKey(keyTypeUser, description, payload, int(ring))
	return int32(id), mapErrno(err)
}

func (nativeSyscalls) search(ring int32, description string) (int32, error) {
	id, err := unix.KeyctlSearch(int(ring), keyTypeUser, description, 0)
	return int32(id), mapErrno(err)
}

func (nativeSyscalls) read(id int32, buf []byte) (int, error) {
	n, err := unix.KeyctlBuffer(unix.KEYCTL_READ, int(id), buf, 0)
	return n, mapErrno(err)
}

func (nativeSyscalls) describe(id int32, buf []byte) (int, error) {
	n, err := unix.KeyctlBuffer(unix.KEYCTL_DESCRIBE, int(id), buf, 0)
	return n, mapErrno(err)
}

func (nativeSyscalls) invalidate(id int32) error {
	_, err := unix.KeyctlInt(unix.KEYCTL_INVALIDATE, int(id), 0, 0, 0)
	return mapErrno(err)
}

func mapErrno(err error) error {
	if err == nil {
		return nil
	}
	var errno unix.Errno
	if stderrors.As(err, &errno) {
		switch errno {
		case unix.ENOKEY, unix.EKEYREVOKED, unix.EKEYEXPIRED:
			return fmt.Errorf("%w: %v", errKeyNotFound, errno)
		}
	}
	return err
}
