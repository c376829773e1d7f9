package app

import "eventvault/pkg/domain"

// authorizeOwner is the single owner-access predicate reused by every
// resource-scoped read and update path. Privileged principals always
// pass; everyone else must own the resource. Callers confirm existence
// first so a deny is never mistaken for a missing resource.
func authorizeOwner(p domain.Principal, ownerID int64) error {
	if p.Role.Privileged() || p.ID == ownerID {
		return nil
	}
	return ErrForbidden("access denied")
}
