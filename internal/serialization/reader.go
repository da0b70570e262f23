package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/itensor"
	"github.com/tyler-bryson/ITensor/internal/storage"
)

// Read reconstructs one tensor record from r, validating the envelope and
// every header field before touching the payload.
func Read(r io.Reader) (*itensor.ITensor, error) {
	magic := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: failed to read magic: %v", ErrTruncated, err)
	}
	if string(magic) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: failed to read version: %v", ErrTruncated, err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	is, err := readIndexSet(r)
	if err != nil {
		return nil, err
	}

	var sign int8
	if err := binary.Read(r, binary.LittleEndian, &sign); err != nil {
		return nil, fmt.Errorf("%w: failed to read scale sign: %v", ErrTruncated, err)
	}
	var logmag float64
	if err := binary.Read(r, binary.LittleEndian, &logmag); err != nil {
		return nil, fmt.Errorf("%w: failed to read scale magnitude: %v", ErrTruncated, err)
	}

	var kindTag uint32
	if err := binary.Read(r, binary.LittleEndian, &kindTag); err != nil {
		return nil, fmt.Errorf("%w: failed to read storage kind: %v", ErrTruncated, err)
	}
	kind := storage.Kind(kindTag)
	if kind.String() == "Unknown" {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kindTag)
	}

	s, err := storage.ReadPayload(kind, r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s payload: %w", kind, err)
	}

	return itensor.Wrap(is, itensor.LogFromParts(sign, logmag), storage.NewPData(s))
}

// readIndexSet reconstructs the index set written by writeIndexSet.
func readIndexSet(r io.Reader) (index.IndexSet, error) {
	var rank uint32
	if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
		return index.IndexSet{}, fmt.Errorf("%w: failed to read rank: %v", ErrTruncated, err)
	}
	if rank > MaxRank {
		return index.IndexSet{}, fieldTooLarge("rank", int(rank), MaxRank)
	}

	b := index.NewBuilder(int(rank))
	for i := 0; i < int(rank); i++ {
		var id uuid.UUID
		if _, err := io.ReadFull(r, id[:]); err != nil {
			return index.IndexSet{}, fmt.Errorf("%w: failed to read index id: %v", ErrTruncated, err)
		}
		var nameLen uint16
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return index.IndexSet{}, fmt.Errorf("%w: failed to read index name length: %v", ErrTruncated, err)
		}
		if int(nameLen) > MaxNameLen {
			return index.IndexSet{}, fieldTooLarge("index name", int(nameLen), MaxNameLen)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return index.IndexSet{}, fmt.Errorf("%w: failed to read index name: %v", ErrTruncated, err)
		}
		var dim uint32
		if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
			return index.IndexSet{}, fmt.Errorf("%w: failed to read index dimension: %v", ErrTruncated, err)
		}
		if dim == 0 || dim > MaxIndexDim {
			return index.IndexSet{}, fieldTooLarge("index dimension", int(dim), MaxIndexDim)
		}
		var prime uint32
		if err := binary.Read(r, binary.LittleEndian, &prime); err != nil {
			return index.IndexSet{}, fmt.Errorf("%w: failed to read index prime level: %v", ErrTruncated, err)
		}
		if prime > MaxPrimeMark {
			return index.IndexSet{}, fieldTooLarge("index prime level", int(prime), MaxPrimeMark)
		}
		b.Set(i, index.Restore(id, string(name), int(dim), int(prime)))
	}
	is, err := b.Build()
	if err != nil {
		return index.IndexSet{}, fmt.Errorf("invalid serialized index set: %w", err)
	}
	return is, nil
}

// ReadFile reads a tensor file written by WriteFile, verifying the SHA-256
// trailer before decoding. The checksum pass streams the body so large
// tensors are not buffered twice.
func ReadFile(path string) (*itensor.ITensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tensor file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat tensor file: %w", err)
	}
	bodyLen := info.Size() - ChecksumSize
	if bodyLen < 0 {
		return nil, fmt.Errorf("%w: file shorter than checksum trailer", ErrTruncated)
	}

	computed, err := ComputeChecksumReader(io.LimitReader(f, bodyLen))
	if err != nil {
		return nil, fmt.Errorf("failed to checksum tensor file: %w", err)
	}
	var stored [32]byte
	if _, err := io.ReadFull(f, stored[:]); err != nil {
		return nil, fmt.Errorf("%w: failed to read checksum trailer: %v", ErrTruncated, err)
	}
	if err := ValidateChecksum(computed, stored); err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind tensor file: %w", err)
	}
	return Read(io.LimitReader(f, bodyLen))
}
