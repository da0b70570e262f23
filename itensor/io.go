// Copyright 2026 ITensor-Go Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package itensor

import (
	"io"

	"github.com/tyler-bryson/ITensor/internal/serialization"
)

// Write emits t to w as one tagged binary record.
func Write(w io.Writer, t *ITensor) error {
	return serialization.Write(w, t)
}

// Read reconstructs a tensor record from r.
func Read(r io.Reader) (*ITensor, error) {
	return serialization.Read(r)
}

// WriteFile writes t to path with a SHA-256 checksum trailer.
func WriteFile(path string, t *ITensor) error {
	return serialization.WriteFile(path, t)
}

// ReadFile reads a tensor file, verifying its checksum first.
func ReadFile(path string) (*ITensor, error) {
	return serialization.ReadFile(path)
}
