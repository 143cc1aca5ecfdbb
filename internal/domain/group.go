package domain

import "time"

// Group is the unit of ticket visibility. A ticket belongs to exactly one
// group; its members are the only users allowed to view it.
type Group struct {
	ID        string
	Name      string
	Members   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether the given user id belongs to the group.
func (g *Group) HasMember(userID string) bool {
	if g == nil {
		return false
	}
	for _, member := range g.Members {
		if member == userID {
			return true
		}
	}
	return false
}
