package serialization

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/tyler-bryson/ITensor/internal/index"
	"github.com/tyler-bryson/ITensor/internal/itensor"
)

// Write emits t to w as one tagged record behind the format envelope:
// magic, version, index set, scale, storage kind tag, payload. Everything
// is little-endian.
func Write(w io.Writer, t *itensor.ITensor) error {
	if !t.Valid() {
		return fmt.Errorf("cannot serialize a null tensor")
	}

	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}

	if err := writeIndexSet(w, t.Inds()); err != nil {
		return err
	}

	scale := t.Scale()
	if err := binary.Write(w, binary.LittleEndian, int8(scale.Sign())); err != nil {
		return fmt.Errorf("failed to write scale sign: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, scale.LogMag()); err != nil {
		return fmt.Errorf("failed to write scale magnitude: %w", err)
	}

	s := t.Storage()
	if err := binary.Write(w, binary.LittleEndian, uint32(s.Kind())); err != nil {
		return fmt.Errorf("failed to write storage kind: %w", err)
	}
	if err := s.WritePayload(w); err != nil {
		return fmt.Errorf("failed to write %s payload: %w", s.Kind(), err)
	}
	return nil
}

// writeIndexSet emits the rank followed by each index's identity: uuid,
// name, dimension, prime level.
func writeIndexSet(w io.Writer, is index.IndexSet) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(is.Len())); err != nil {
		return fmt.Errorf("failed to write rank: %w", err)
	}
	for i := 0; i < is.Len(); i++ {
		ind := is.At(i)
		id := ind.ID()
		if _, err := w.Write(id[:]); err != nil {
			return fmt.Errorf("failed to write index id: %w", err)
		}
		name := ind.Name()
		if len(name) > MaxNameLen {
			return fieldTooLarge("index name", len(name), MaxNameLen)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(name))); err != nil {
			return fmt.Errorf("failed to write index name length: %w", err)
		}
		if _, err := io.WriteString(w, name); err != nil {
			return fmt.Errorf("failed to write index name: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(ind.Dim())); err != nil {
			return fmt.Errorf("failed to write index dimension: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(ind.PrimeLevel())); err != nil {
			return fmt.Errorf("failed to write index prime level: %w", err)
		}
	}
	return nil
}

// WriteFile writes t to path with a SHA-256 checksum trailer covering the
// whole record.
func WriteFile(path string, t *itensor.ITensor) error {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return err
	}
	sum := ComputeChecksum(buf.Bytes())
	buf.Write(sum[:])

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write tensor file: %w", err)
	}
	return nil
}
