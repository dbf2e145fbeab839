package persist

import (
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Snapshot is one serialized scene state.
type Snapshot struct {
	Scene     string
	Frame     uint64
	Checksum  string // hex blake2b-256 of Data
	Data      []byte
	CreatedAt time.Time
}

// NewSnapshot stamps data with its checksum and the current time.
func NewSnapshot(scene string, frame uint64, data []byte) *Snapshot {
	return &Snapshot{
		Scene:     scene,
		Frame:     frame,
		Checksum:  Checksum(data),
		Data:      data,
		CreatedAt: time.Now(),
	}
}

// Checksum returns the hex blake2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether Data still matches Checksum.
func (s *Snapshot) Verify() bool {
	return Checksum(s.Data) == s.Checksum
}

// ChecksumError reports a stored snapshot whose data does not match its
// checksum.
type ChecksumError struct {
	Scene    string
	Checksum string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("snapshot of scene %q does not match checksum %s", e.Scene, e.Checksum)
}
