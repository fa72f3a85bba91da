// Package policy decides whether a subject may perform an action on a resource.
//
// Decisions are pure: every input is passed in explicitly and nothing is cached,
// so callers compute a fresh decision from data fetched in the same request.
package policy

import "audiovault"

// Resource kinds.
type Resource string

const (
	ResourceAudio        Resource = "audio"
	ResourcePlaylist     Resource = "playlist"
	ResourcePlaylistItem Resource = "playlist_item"
	ResourceUser         Resource = "user"
	ResourceLibrary      Resource = "library"
)

// Actions.
type Action string

const (
	ActionRead       Action = "read"
	ActionDelete     Action = "delete"
	ActionCreate     Action = "create"
	ActionListByUser Action = "list_by_user"
	ActionListOwn    Action = "list_own"
	ActionListAll    Action = "list_all"
	ActionAddItem    Action = "add_item"
	ActionRemoveItem Action = "remove_item"
	ActionList       Action = "list"
	ActionInspect    Action = "inspect"
)

// Subject is the resolved caller.
type Subject struct {
	ID      string
	IsAdmin bool
}

// Request describes one access check. OwnerID is the owner of the resource
// (for playlist items, the owner of the parent playlist). TargetID is the user
// addressed by list-by-user and user delete.
type Request struct {
	Subject  Subject
	Resource Resource
	Action   Action
	OwnerID  string
	TargetID string
}

// Outcome of a decision.
type Outcome uint8

const (
	Deny Outcome = iota
	Allow
	DenyConflict
)

// Decision carries the outcome and a reason usable as a caller-facing message.
type Decision struct {
	Outcome Outcome
	Reason  string
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

func allow() Decision { return Decision{Outcome: Allow} }

func deny(reason string) Decision { return Decision{Outcome: Deny, Reason: reason} }

// Decide evaluates the access table. Unknown resource/action pairs are denied.
func Decide(r Request) Decision {
	s := r.Subject
	owns := s.ID != "" && s.ID == r.OwnerID

	switch r.Resource {
	case ResourceAudio:
		switch r.Action {
		case ActionRead, ActionDelete:
			if owns || s.IsAdmin {
				return allow()
			}
			return deny("not authorized to " + string(r.Action) + " this audio file")
		case ActionListByUser:
			if (s.ID != "" && s.ID == r.TargetID) || s.IsAdmin {
				return allow()
			}
			return deny("not authorized to access this user's files")
		}

	case ResourcePlaylist:
		switch r.Action {
		case ActionRead, ActionDelete:
			if owns || s.IsAdmin {
				return allow()
			}
			return deny("not authorized to " + string(r.Action) + " this playlist")
		case ActionCreate, ActionListOwn:
			return allow()
		case ActionListAll:
			if s.IsAdmin {
				return allow()
			}
			return deny("only admin users can list all playlists")
		}

	case ResourcePlaylistItem:
		switch r.Action {
		case ActionAddItem, ActionRemoveItem:
			// Admin does not override item mutation.
			if owns {
				return allow()
			}
			return deny("not authorized to modify this playlist")
		}

	case ResourceUser:
		switch r.Action {
		case ActionCreate, ActionList:
			if s.IsAdmin {
				return allow()
			}
			return deny("only admin users can " + string(r.Action) + " users")
		case ActionDelete:
			if !s.IsAdmin {
				return deny("only admin users can delete users")
			}
			if r.TargetID == s.ID {
				return Decision{Outcome: DenyConflict, Reason: "cannot delete your own account"}
			}
			return allow()
		}

	case ResourceLibrary:
		if r.Action == ActionInspect && s.IsAdmin {
			return allow()
		}
		return deny("only admin users can inspect the library")
	}

	return deny("action not permitted")
}

// Authorize evaluates r and converts a denial into an Unauthorized or Conflict error.
func Authorize(r Request) error {
	d := Decide(r)
	switch d.Outcome {
	case Allow:
		return nil
	case DenyConflict:
		return audiovault.E(audiovault.KindConflict, d.Reason)
	default:
		return audiovault.E(audiovault.KindUnauthorized, d.Reason)
	}
}
