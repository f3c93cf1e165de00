package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"hash/crc32"
	"hash/fnv"

	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"

	"github.com/scolby33/foldercompare/pkg/models"
)

// Default is the algorithm used when none is configured
const Default = "sha3_256"

// Algorithm describes a named digest function
type Algorithm struct {
	Name string
	// Size is the digest length in bytes
	Size int
	New  func() hash.Hash
}

// HexLen returns the length of the algorithm's hex-encoded digest
func (a Algorithm) HexLen() int {
	return a.Size * 2
}

var registry = []Algorithm{
	{Name: "md5", Size: md5.Size, New: md5.New},
	{Name: "sha1", Size: sha1.Size, New: sha1.New},
	{Name: "sha224", Size: sha256.Size224, New: sha256.New224},
	{Name: "sha256", Size: sha256.Size, New: sha256.New},
	{Name: "sha384", Size: sha512.Size384, New: sha512.New384},
	{Name: "sha512", Size: sha512.Size, New: sha512.New},
	{Name: "sha512_256", Size: sha512.Size256, New: sha512.New512_256},
	{Name: "sha3_224", Size: 28, New: sha3.New224},
	{Name: "sha3_256", Size: 32, New: sha3.New256},
	{Name: "sha3_384", Size: 48, New: sha3.New384},
	{Name: "sha3_512", Size: 64, New: sha3.New512},
	{Name: "blake2b", Size: blake2b.Size, New: mustKeyless(blake2b.New512)},
	{Name: "blake2s", Size: blake2s.Size, New: mustKeyless(blake2s.New256)},
	{Name: "blake3", Size: 32, New: func() hash.Hash { return blake3.New() }},
	{Name: "xxh3", Size: 8, New: func() hash.Hash { return xxh3.New() }},
	{Name: "crc32", Size: crc32.Size, New: func() hash.Hash { return crc32.NewIEEE() }},
	{Name: "fnv1a_64", Size: 8, New: func() hash.Hash { return fnv.New64a() }},
}

// mustKeyless adapts the keyed blake2 constructors; a nil key never fails
func mustKeyless(newKeyed func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := newKeyed(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
}

// Lookup returns the algorithm registered under name.
// Names are case-sensitive.
func Lookup(name string) (Algorithm, error) {
	for _, a := range registry {
		if a.Name == name {
			return a, nil
		}
	}
	return Algorithm{}, &models.UnsupportedAlgorithmError{Name: name, Supported: Names()}
}

// Names returns the supported algorithm names in registry order
func Names() []string {
	names := make([]string, len(registry))
	for i, a := range registry {
		names[i] = a.Name
	}
	return names
}
