package storage

import "sync/atomic"

// storageBox is the reference-counted cell behind a PData handle. The count
// tracks how many handles share the payload so that mutation can clone first.
type storageBox struct {
	store Storage
	refs  atomic.Int32
}

func newStorageBox(s Storage) *storageBox {
	b := &storageBox{store: s}
	b.refs.Store(1)
	return b
}

// PData is a shared, copy-on-write handle owning exactly one storage variant.
// Copying a tensor copies the handle (one reference count increment); the
// payload is cloned only when a holder needs to mutate shared storage.
// Replacing the payload rebinds this handle alone; other holders keep the
// storage they had.
type PData struct {
	box *storageBox
}

// NewPData wraps s in a fresh handle with a reference count of one.
func NewPData(s Storage) PData {
	return PData{box: newStorageBox(s)}
}

// Valid reports whether the handle owns storage.
func (p PData) Valid() bool {
	return p.box != nil && p.box.store != nil
}

// Store returns the owned storage variant, or nil for an empty handle.
func (p PData) Store() Storage {
	if p.box == nil {
		return nil
	}
	return p.box.store
}

// Share returns a new handle on the same storage and bumps the count.
func (p PData) Share() PData {
	if p.box != nil {
		p.box.refs.Add(1)
	}
	return PData{box: p.box}
}

// IsUnique reports whether this handle is the only reference.
func (p PData) IsUnique() bool {
	return p.box != nil && p.box.refs.Load() == 1
}

// MakeUnique ensures the handle is the sole owner of its storage, cloning
// the payload when other handles still reference it.
func (p *PData) MakeUnique() {
	if p.box == nil || p.box.refs.Load() == 1 {
		return
	}
	clone := p.box.store.Clone()
	p.box.refs.Add(-1)
	p.box = newStorageBox(clone)
}

// Replace rebinds the handle to brand-new storage, dropping its reference
// to the old payload.
func (p *PData) Replace(s Storage) {
	p.Release()
	p.box = newStorageBox(s)
}

// Release drops this handle's reference. The handle becomes empty; the
// payload stays alive while other handles reference it.
func (p *PData) Release() {
	if p.box == nil {
		return
	}
	if p.box.refs.Add(-1) == 0 {
		p.box.store = nil
	}
	p.box = nil
}
