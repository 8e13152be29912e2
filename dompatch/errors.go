package dompatch

import (
	"errors"
	"fmt"
)

// ErrMidStreamClear is returned when a Clear patch appears anywhere but the
// first position of a batch (spec.md §4.5: "Clear" resets key allocation
// state and must only ever open a stream).
var ErrMidStreamClear = errors.New("dompatch: Clear patch is not the first in its batch")

// UnknownKeyError is returned when a patch references a PatchKey that does
// not currently exist in the materializer's node table.
type UnknownKeyError struct {
	Op  OpKind
	Key PatchKey
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("dompatch: %s references unknown key %d", e.Op, e.Key)
}

func (e *UnknownKeyError) Is(target error) bool {
	var uk *UnknownKeyError
	if errors.As(target, &uk) {
		return e.Op == uk.Op && e.Key == uk.Key
	}
	return false
}

// KindMismatchError is returned when a patch expects a node of one kind
// (e.g. SetText on a text node) but the target key refers to a node of
// another kind.
type KindMismatchError struct {
	Op       OpKind
	Key      PatchKey
	NodeKind NodeKind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("dompatch: %s cannot apply to key %d (node kind %s)", e.Op, e.Key, e.NodeKind)
}

func (e *KindMismatchError) Is(target error) bool {
	var km *KindMismatchError
	if errors.As(target, &km) {
		return e.Op == km.Op && e.Key == km.Key && e.NodeKind == km.NodeKind
	}
	return false
}

// DuplicateKeyError is returned when a create operation reuses a key that is
// already live in the node table.
type DuplicateKeyError struct {
	Key PatchKey
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("dompatch: key %d is already in use", e.Key)
}
