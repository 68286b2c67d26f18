package splendir

import "strings"

// NotCalculated is stored in digest, format and MIME fields that were not requested.
const NotCalculated = "Not calculated"

// Unlimited disables the traversal depth limit.
const Unlimited = -1

// Hash type constants
const (
	HashTypeMD5    uint16 = 1 // MD5 (16 bytes)
	HashTypeSHA256 uint16 = 2 // SHA-256 (32 bytes)
	HashTypeSHA512 uint16 = 3 // SHA-512 (64 bytes)
)

// Hash size constants
const (
	HashSizeMD5    = 16 // MD5 hash size in bytes
	HashSizeSHA256 = 32 // SHA-256 hash size in bytes
	HashSizeSHA512 = 64 // SHA-512 hash size in bytes
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeMD5:
		return "md5"
	case HashTypeSHA256:
		return "sha256"
	case HashTypeSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case "md5":
		return HashTypeMD5, true
	case "sha256", "sha-256":
		return HashTypeSHA256, true
	case "sha512", "sha-512":
		return HashTypeSHA512, true
	default:
		return 0, false
	}
}

// Scan tuning defaults
const (
	DefaultHashBufferSize = 8 * 1024
	// progress is emitted every detailedProgressStride hash completions
	detailedProgressStride = 10
	statsProgressStride    = 100
	// AnalysisMaxDepth caps AnalyzeDirectory when the caller passes no limit
	AnalysisMaxDepth = 50
)

// Status strings emitted through ProgressCallback
const (
	StatusCollecting = "Collecting files..."
	StatusComplete   = "Complete"
)
