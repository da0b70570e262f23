package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

// payloadReader reconstructs one storage kind from its binary payload
// record. Each kind's file registers its reader at init time; reading
// cannot dispatch on a storage value that does not exist yet.
type payloadReader func(r io.Reader) (Storage, error)

var payloadReaders = map[Kind]payloadReader{}

func registerPayload(k Kind, f payloadReader) {
	if _, dup := payloadReaders[k]; dup {
		panic(fmt.Sprintf("payload reader for %s registered twice", k))
	}
	payloadReaders[k] = f
}

// ReadPayload reconstructs storage of kind k from its payload record.
func ReadPayload(k Kind, r io.Reader) (Storage, error) {
	f, ok := payloadReaders[k]
	if !ok {
		return nil, fmt.Errorf("no payload reader for storage kind %d", int(k))
	}
	return f(r)
}

// readPayloadCount reads a u64 element count, bounding it so a corrupted
// record cannot trigger a huge allocation.
func readPayloadCount(r io.Reader, what string) (int, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, fmt.Errorf("failed to read %s element count: %w", what, err)
	}
	if n > maxPayloadElems {
		return 0, fmt.Errorf("%s element count %d exceeds limit", what, n)
	}
	return int(n), nil
}
