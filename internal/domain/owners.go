package domain

import "strconv"

const UnknownOwner = "??"

// OwnerDirectory resolves display names. Explicit names win over initials and
// may be keyed by owner id or by team id.
type OwnerDirectory struct {
	names map[string]string
}

func NewOwnerDirectory(names map[string]string) *OwnerDirectory {
	if names == nil {
		names = map[string]string{}
	}
	return &OwnerDirectory{names: names}
}

func (d *OwnerDirectory) Name(team Team) string {
	if d != nil {
		if n, ok := d.names[team.Owner.ID]; ok && n != "" {
			return n
		}
		if n, ok := d.names[strconv.Itoa(team.ID)]; ok && n != "" {
			return n
		}
	}
	if initials := team.Owner.Initials(); initials != "" {
		return initials
	}
	return UnknownOwner
}
