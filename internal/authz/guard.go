// Package authz decides whether a caller may mutate a resource.
package authz

import (
	"github.com/google/uuid"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Authorize allows only the resource owner. A nil caller is never allowed.
func Authorize(callerID, ownerID uuid.UUID) Decision {
	if callerID == uuid.Nil || callerID != ownerID {
		return Denied
	}
	return Allowed
}
