package studio

import "github.com/google/uuid"

// IDGenerator produces node ids.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

// NewID implements IDGenerator.
func (f IDFunc) NewID() string { return f() }

// UUIDGenerator issues random v4 uuids.
var UUIDGenerator IDGenerator = IDFunc(uuid.NewString)

func normalizeIDs(ids IDGenerator) IDGenerator {
	if ids == nil {
		return UUIDGenerator
	}
	return ids
}
