// Package guard decides whether gated content is shown to the current user.
package guard

import "semaphore/portal/internal/api"

type Mode int

const (
	Any Mode = iota
	All
)

type Requirement struct {
	Permissions []string
	Mode        Mode
}

// Require is satisfied by any one of perms.
func Require(perms ...string) Requirement {
	return Requirement{Permissions: perms, Mode: Any}
}

// RequireAll is satisfied only when every one of perms is held.
func RequireAll(perms ...string) Requirement {
	return Requirement{Permissions: perms, Mode: All}
}

func (r Requirement) SatisfiedBy(set api.PermissionSet) bool {
	if len(r.Permissions) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(set.Permissions))
	for _, p := range set.Permissions {
		held[p] = struct{}{}
	}
	for _, p := range r.Permissions {
		_, ok := held[p]
		if r.Mode == All && !ok {
			return false
		}
		if r.Mode == Any && ok {
			return true
		}
	}
	return r.Mode == All
}

type Outcome int

const (
	// Nothing renders no output while permissions are loading.
	Nothing Outcome = iota
	Children
	// Fallback renders the fallback if one is given, otherwise nothing.
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Nothing:
		return "nothing"
	case Children:
		return "children"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

type State struct {
	Loading     bool
	Permissions api.PermissionSet
}

func Decide(state State, req Requirement) Outcome {
	if state.Loading {
		return Nothing
	}
	if req.SatisfiedBy(state.Permissions) {
		return Children
	}
	return Fallback
}
