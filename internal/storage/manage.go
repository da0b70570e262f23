package storage

// ManageStore is the side channel through which a dispatched task may swap
// storage while the dispatcher stays unaware of what happened. It holds the
// operand handles for the duration of one dispatch; the left slot doubles as
// the result slot. A task may install brand-new storage, declare that one
// operand's payload should become the result as-is, or do nothing and leave
// the left operand's payload in place.
type ManageStore struct {
	left  *PData
	right *PData
	fresh bool
}

// NewManageStore builds a mediator over the result (left) and right operand
// handles of a binary task.
func NewManageStore(left, right *PData) *ManageStore {
	return &ManageStore{left: left, right: right}
}

// NewUnaryManage builds a mediator for a single-operand task that may
// replace its own storage.
func NewUnaryManage(left *PData) *ManageStore {
	return &ManageStore{left: left}
}

// MakeNewData installs s as brand-new result storage, releasing the result
// slot's old reference.
func (m *ManageStore) MakeNewData(s Storage) {
	m.left.Replace(s)
	m.fresh = true
}

// NewData reports whether MakeNewData has run during this dispatch. Binary
// tasks invoked in reversed operand order use this to avoid installing a
// result twice.
func (m *ManageStore) NewData() bool {
	return m.fresh
}

// AssignPointerRtoL makes the result slot share the right operand's storage
// without copying the payload.
func (m *ManageStore) AssignPointerRtoL() {
	if m.right == nil {
		panic("manage store: no right operand to assign from")
	}
	m.left.Release()
	*m.left = m.right.Share()
}

// AssignPointerLtoR makes the right operand's handle share the result slot's
// storage without copying the payload.
func (m *ManageStore) AssignPointerLtoR() {
	if m.right == nil {
		panic("manage store: no right operand to assign to")
	}
	m.right.Release()
	*m.right = m.left.Share()
}
