package api

import "github.com/google/uuid"

// NewBlockID returns a unique identifier for a stream content block.
func NewBlockID() string {
	return "blk_" + uuid.NewString()
}

// NewCallID returns a unique identifier for a generated tool call that
// arrived without a backend-assigned id.
func NewCallID() string {
	return "call_" + uuid.NewString()
}
