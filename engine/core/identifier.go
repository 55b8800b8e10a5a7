package core

import (
	"fmt"
	"sync"
)

var identifierMu sync.Mutex
var owners []interface{}

// IdentifierAcquireNewID hands out a numeric id bound to owner. Released ids
// are reused before new ones are minted. The owner must not be nil; a nil
// slot marks a free id.
func IdentifierAcquireNewID(owner interface{}) uint32 {
	identifierMu.Lock()
	defer identifierMu.Unlock()

	for i := range owners {
		if owners[i] == nil {
			owners[i] = owner
			return uint32(i)
		}
	}
	owners = append(owners, owner)
	return uint32(len(owners) - 1)
}

// IdentifierReleaseID returns an id to the pool.
func IdentifierReleaseID(id uint32) error {
	identifierMu.Lock()
	defer identifierMu.Unlock()

	if int(id) >= len(owners) {
		return fmt.Errorf("releasing id %d which was never acquired (max %d)", id, len(owners))
	}
	owners[id] = nil
	return nil
}
