package queue

import "errors"

// ErrUnknownStage indicates an attempt to persist a stage name outside the
// known stage set.
var ErrUnknownStage = errors.New("unknown stage")

// ErrDuplicateContent indicates an insert collided with an existing item
// carrying the same content hash.
var ErrDuplicateContent = errors.New("duplicate content hash")
