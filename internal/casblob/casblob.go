// Package casblob provides a disk cache for fetched archive bytes (e.g.
// the vocabulary archive), backed by internal/diskcache. Each entry is
// stored as-is under a caller-chosen logical key (e.g. the source URL)
// plus a version key; the store neither addresses nor checks entries by
// content hash. Digest and VerifyDigest compute and check SHA-256 and
// BLAKE3 digests of a byte slice on their own, outside the store.
package casblob

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/unfoldingword/twl/internal/diskcache"
)

// Store is a version-key-guarded blob cache keyed by logical key.
type Store struct {
	disk *diskcache.Store
}

// Open opens a blob store backed by a disk cache database at path.
func Open(path string) (*Store, error) {
	disk, err := diskcache.Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{disk: disk}, nil
}

// Close releases the underlying disk cache handle.
func (s *Store) Close() error {
	return s.disk.Close()
}

// GetVersioned retrieves the blob stored under key, but only if its
// stored version key matches wantVersion. A version mismatch is treated
// as a cache miss (the upstream content has moved on).
func (s *Store) GetVersioned(key, wantVersion string) ([]byte, bool) {
	data, gotVersion, ok, err := s.disk.Get(key)
	if err != nil || !ok {
		return nil, false
	}
	if gotVersion != wantVersion {
		return nil, false
	}
	return data, true
}

// PutVersioned stores data under key with the given version key.
func (s *Store) PutVersioned(key, versionKey string, data []byte) error {
	return s.disk.Put(key, versionKey, data)
}

// Clear empties the entire blob cache.
func (s *Store) Clear() error {
	return s.disk.Clear()
}

// Digest computes both the SHA-256 and BLAKE3 hex digests of data.
func Digest(data []byte) (sha256Hex, blake3Hex string) {
	sh := sha256.Sum256(data)
	b3 := blake3.Sum256(data)
	return hex.EncodeToString(sh[:]), hex.EncodeToString(b3[:])
}

// VerifyDigest reports whether data matches a previously recorded BLAKE3
// digest, guarding against silent corruption in the cache's storage
// layer.
func VerifyDigest(data []byte, wantBlake3Hex string) error {
	_, gotBlake3 := Digest(data)
	if gotBlake3 != wantBlake3Hex {
		return fmt.Errorf("blake3 digest mismatch: got %s want %s", gotBlake3, wantBlake3Hex)
	}
	return nil
}
