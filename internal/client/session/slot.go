package session

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Slot stores the digest of the last-seen identity. An empty digest means
// no identity was seen.
type Slot interface {
	Load() ([]byte, error)
	Store(digest []byte) error
	Clear() error
}

// Digest is the value written to a Slot for identity.
func Digest(identity string) []byte {
	sum := blake2b.Sum256([]byte(identity))
	return sum[:]
}

func sameDigest(a, b []byte) bool {
	return len(a) > 0 && bytes.Equal(a, b)
}

// DefaultDir is $XDG_RUNTIME_DIR, or the temp dir when it is unset. Both are
// emptied when the OS session ends.
func DefaultDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// FileSlot keeps the digest hex-encoded in a single file.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot stored as <dir>/herocards-<name>.session.
func NewFileSlot(dir, name string) *FileSlot {
	return &FileSlot{path: filepath.Join(dir, fmt.Sprintf("herocards-%s.session", name))}
}

func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Load() ([]byte, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session slot: %w", err)
	}
	digest, err := hex.DecodeString(string(bytes.TrimSpace(raw)))
	if err != nil {
		// A corrupt slot is treated as unknown, which forces a purge.
		return nil, nil
	}
	return digest, nil
}

func (s *FileSlot) Store(digest []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(hex.EncodeToString(digest)), 0o600); err != nil {
		return fmt.Errorf("write session slot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session slot: %w", err)
	}
	return nil
}

func (s *FileSlot) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session slot: %w", err)
	}
	return nil
}

// MemorySlot is a Slot held in memory.
type MemorySlot struct {
	mu     sync.Mutex
	digest []byte
}

func (s *MemorySlot) Load() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.digest...), nil
}

func (s *MemorySlot) Store(digest []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digest = append([]byte(nil), digest...)
	return nil
}

func (s *MemorySlot) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digest = nil
	return nil
}
