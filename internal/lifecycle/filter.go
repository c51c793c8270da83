package lifecycle

import "github.com/mindwell/sessionctl/internal/model"

// Filter selects sessions by status and type. A zero field means ALL on
// that dimension; both dimensions must match (logical AND).
type Filter struct {
	Status model.SessionStatus
	Type   model.SessionType
}

func (f Filter) IsAll() bool {
	return f.Status == "" && f.Type == ""
}

func (f Filter) Matches(s model.Session) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	return true
}

// Apply projects the subset satisfying both dimensions, preserving the
// server-provided order. The ALL/ALL filter is the identity.
func Apply(sessions []model.Session, f Filter) []model.Session {
	if f.IsAll() {
		return sessions
	}

	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}
