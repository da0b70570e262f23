// Package serialization reads and writes tensors as tagged binary records:
// a fixed envelope, the index set, the scale, a storage kind tag, and the
// kind-specific payload. Files carry a SHA-256 checksum trailer so
// corruption is detected before a partial tensor is handed back.
package serialization

// Format constants.
const (
	MagicBytes    = "ITGO"
	FormatVersion = 1

	// ChecksumSize is the length of the SHA-256 trailer on files.
	ChecksumSize = 32
)

// Sanity bounds on header fields, so corrupted records fail fast instead of
// triggering huge allocations.
const (
	MaxRank      = 1 << 10
	MaxNameLen   = 1 << 12
	MaxIndexDim  = 1 << 30
	MaxPrimeMark = 1 << 16
)
