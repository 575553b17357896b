package provisioning

import (
	"encoding/hex"
	"sync"

	"github.com/zeebo/blake3"
)

// BinaryInfo describes the loaded resource binary.
type BinaryInfo struct {
	Size   int    `json:"size"`
	Digest string `json:"digest"` // hex blake3-256
}

// resourceBinary is the installable binary shared by every provisioning call.
type resourceBinary struct {
	mu     sync.RWMutex
	data   []byte
	digest string
}

func (b *resourceBinary) Set(data []byte) BinaryInfo {
	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	cp := append([]byte(nil), data...)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = cp
	b.digest = digest
	return BinaryInfo{Size: len(cp), Digest: digest}
}

// Load returns the binary and its info. The returned slice must not be modified.
func (b *resourceBinary) Load() ([]byte, BinaryInfo) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data, BinaryInfo{Size: len(b.data), Digest: b.digest}
}
