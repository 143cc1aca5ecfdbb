package domain

import "time"

// User is the already-authenticated requester identity supplied by the
// session token. Credential handling lives outside this service.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
