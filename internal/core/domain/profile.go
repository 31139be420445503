package domain

import "time"

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ProfileStatus gates access: only approved profiles may hold an
// authenticated session.
type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileApproved ProfileStatus = "approved"
	ProfileRejected ProfileStatus = "rejected"
)

// Profile is the durable identity record joined against an auth
// credential. Its ID is shared with the credential.
type Profile struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Role      string        `json:"role"`
	Status    ProfileStatus `json:"status"`
	FirstName string        `json:"firstName,omitempty"`
	LastName  string        `json:"lastName,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// User is the resolved in-app identity snapshot held by the state store
// and mirrored into the local session cache.
type User struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Role      string        `json:"role"`
	Status    ProfileStatus `json:"status"`
	FirstName string        `json:"firstName,omitempty"`
	LastName  string        `json:"lastName,omitempty"`
}
