package credman

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/zx06/keytar/internal/backend"
	"github.com/zx06/keytar/internal/errors"
)

// MaxBlobSize 即 CRED_MAX_CREDENTIAL_BLOB_SIZE（5 * 512）。
const MaxBlobSize = 2560

// decodeBlob 把凭据 blob 解码为文本。
// 本库写入的是 UTF-8；其他工具（如 cmdkey）写入的 UTF-16LE 也能读出。
func decodeBlob(blob []byte) (string, error) {
	if looksLikeUTF16LE(blob) || (!utf8.Valid(blob) && len(blob)%2 == 0 && validUTF16LE(blob)) {
		text, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(blob)
		if err != nil {
			return "", errors.EncodingFailure("invalid UTF-16LE credential blob", err)
		}
		return string(text), nil
	}
	return backend.DecodeSecret(blob)
}

// looksLikeUTF16LE 识别 ASCII 范围内的 UTF-16LE：偶数长度、奇数位全为 0、偶数位全不为 0。
func looksLikeUTF16LE(b []byte) bool {
	if len(b) == 0 || len(b)%2 != 0 {
		return false
	}
	for i := 0; i < len(b); i += 2 {
		if b[i] == 0 || b[i+1] != 0 {
			return false
		}
	}
	return true
}

// validUTF16LE 检查代理对是否完整配对。
func validUTF16LE(b []byte) bool {
	for i := 0; i < len(b); i += 2 {
		u := rune(b[i]) | rune(b[i+1])<<8
		if !utf16.IsSurrogate(u) {
			continue
		}
		if u >= 0xDC00 || i+3 >= len(b) {
			return false
		}
		next := rune(b[i+2]) | rune(b[i+3])<<8
		if next < 0xDC00 || next > 0xDFFF {
			return false
		}
		i += 2
	}
	return true
}
