package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш содержимого файла, конфигурации или таблицы членов
type Digest [32]byte

// Sum хеширует data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine строит составной хеш: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports the unset digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Hex returns the lowercase hex form, used for cache file names.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}
