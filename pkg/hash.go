package splendir

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	TypeID  uint16
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	typeID, ok := HashTypeFromName(name)
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
	return GetHashAlgorithmByType(typeID)
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	switch typeID {
	case HashTypeMD5:
		return &HashAlgorithm{
			Name:    "md5",
			TypeID:  HashTypeMD5,
			Size:    HashSizeMD5,
			NewFunc: md5.New,
		}, nil
	case HashTypeSHA256:
		return &HashAlgorithm{
			Name:    "sha256",
			TypeID:  HashTypeSHA256,
			Size:    HashSizeSHA256,
			NewFunc: sha256.New,
		}, nil
	case HashTypeSHA512:
		return &HashAlgorithm{
			Name:    "sha512",
			TypeID:  HashTypeSHA512,
			Size:    HashSizeSHA512,
			NewFunc: sha512.New,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash type ID: %d", typeID)
	}
}

// GetHashSize returns the digest size in bytes for a hash type
func GetHashSize(hashType uint16) int {
	switch hashType {
	case HashTypeMD5:
		return HashSizeMD5
	case HashTypeSHA256:
		return HashSizeSHA256
	case HashTypeSHA512:
		return HashSizeSHA512
	default:
		return 0
	}
}

// DigestSet selects which digests a single pass computes.
type DigestSet struct {
	MD5    bool
	SHA256 bool
	SHA512 bool
}

// Any reports whether at least one digest is requested
func (d DigestSet) Any() bool {
	return d.MD5 || d.SHA256 || d.SHA512
}

// Digests holds lowercase hex digests; unrequested entries are NotCalculated.
type Digests struct {
	MD5    string
	SHA256 string
	SHA512 string
}

func notCalculatedDigests() Digests {
	return Digests{MD5: NotCalculated, SHA256: NotCalculated, SHA512: NotCalculated}
}

// HashReader reads r once through a buffer of bufferSize bytes and feeds every
// chunk to each requested hash.
func HashReader(r io.Reader, set DigestSet, bufferSize int) (Digests, error) {
	out := notCalculatedDigests()
	if !set.Any() {
		return out, nil
	}
	if bufferSize <= 0 {
		bufferSize = DefaultHashBufferSize
	}

	type slot struct {
		h   hash.Hash
		dst *string
	}
	var slots []slot
	var writers []io.Writer
	add := func(enabled bool, typeID uint16, dst *string) {
		if !enabled {
			return
		}
		algo, _ := GetHashAlgorithmByType(typeID)
		h := algo.NewFunc()
		slots = append(slots, slot{h: h, dst: dst})
		writers = append(writers, h)
	}
	add(set.MD5, HashTypeMD5, &out.MD5)
	add(set.SHA256, HashTypeSHA256, &out.SHA256)
	add(set.SHA512, HashTypeSHA512, &out.SHA512)

	sink := io.MultiWriter(writers...)
	buffer := make([]byte, bufferSize)
	for {
		n, err := r.Read(buffer)
		if n > 0 {
			sink.Write(buffer[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return notCalculatedDigests(), err
		}
	}

	for _, s := range slots {
		*s.dst = hex.EncodeToString(s.h.Sum(nil))
	}
	return out, nil
}

// HashFile computes the requested digests of a file's contents in one read pass
func HashFile(filePath string, set DigestSet, bufferSize int) (Digests, error) {
	if !set.Any() {
		return notCalculatedDigests(), nil
	}
	file, err := os.Open(filePath)
	if err != nil {
		return notCalculatedDigests(), fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	d, err := HashReader(file, set, bufferSize)
	if err != nil {
		return d, fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}
	return d, nil
}

// HashFileToHexString calculates a single digest of a file as a hex string
func HashFileToHexString(filePath string, algorithm *HashAlgorithm) (string, error) {
	var set DigestSet
	switch algorithm.TypeID {
	case HashTypeMD5:
		set.MD5 = true
	case HashTypeSHA256:
		set.SHA256 = true
	case HashTypeSHA512:
		set.SHA512 = true
	default:
		return "", fmt.Errorf("unsupported hash type ID: %d", algorithm.TypeID)
	}
	d, err := HashFile(filePath, set, DefaultHashBufferSize)
	if err != nil {
		return "", err
	}
	return d.Get(algorithm.TypeID), nil
}

// HashStringToHexString calculates the hash of a string and returns it as a hex string
func HashStringToHexString(data string, algorithm *HashAlgorithm) string {
	hasher := algorithm.NewFunc()
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Get returns the digest for a hash type
func (d Digests) Get(typeID uint16) string {
	switch typeID {
	case HashTypeMD5:
		return d.MD5
	case HashTypeSHA256:
		return d.SHA256
	case HashTypeSHA512:
		return d.SHA512
	default:
		return NotCalculated
	}
}

// IsValidDigest reports whether s is a complete lowercase hex digest for typeID.
func IsValidDigest(s string, typeID uint16) bool {
	size := GetHashSize(typeID)
	if size == 0 || len(s) != size*2 {
		return false
	}
	return strings.Trim(s, "0123456789abcdef") == ""
}
