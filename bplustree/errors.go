package bplus

import "errors"

var (
	// ErrInvalidOrder is returned when a tree is configured with order < MinOrder.
	ErrInvalidOrder = errors.New("bplus: invalid order")
	// ErrCorruptSnapshot is returned when a snapshot exists but cannot be decoded
	// into a valid tree. It is never downgraded to an empty tree.
	ErrCorruptSnapshot = errors.New("bplus: corrupt snapshot")
	// ErrOrderMismatch is returned when a snapshot was written with another order.
	ErrOrderMismatch = errors.New("bplus: snapshot order mismatch")
	ErrClosed        = errors.New("bplus: tree is closed")
	// ErrInvalidValue is returned by Insert for values that are not valid
	// UTF-8; the JSON snapshot cannot store them without altering them.
	ErrInvalidValue = errors.New("bplus: value is not valid UTF-8")
)
