// Package service implements the business rules of the content core:
// permissions, denormalized counter maintenance, and delete cascades.
package service

import "strings"

// Action is a mutation kind checked by the permission resolver.
type Action int

const (
	// ActionEdit changes content without touching lifecycle state.
	ActionEdit Action = iota
	// ActionDelete transitions content out of the live set.
	ActionDelete
)

// Actor is the already-fetched identity a permission check runs against.
type Actor struct {
	ID    uint
	Roles []string
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// PrivilegedRole grants moderation rights over any content.
const PrivilegedRole = "owner"

// CanMutate decides whether the actor may apply the action to a content item
// authored by authorID, where postAuthorID is the author of the nearest
// ancestor post (equal to authorID when the target is itself a post).
//
// Edit is author-only. Delete extends to the ancestor post's author and to
// holders of the privileged role. The resolver performs no I/O; callers
// surface a denial as a Forbidden outcome.
func CanMutate(actor Actor, action Action, authorID, postAuthorID uint) bool {
	switch action {
	case ActionEdit:
		return actor.ID == authorID
	case ActionDelete:
		if actor.ID == authorID || actor.ID == postAuthorID {
			return true
		}
		return actor.HasRole(PrivilegedRole)
	default:
		return false
	}
}
