package domain

import "time"

// Role is the authorization role attached to a user account.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// Privileged reports whether the role bypasses row-level ownership checks.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleModerator
}

// RecordStatus is the soft-delete marker carried by every persisted entity.
// Active queries must filter on it explicitly.
type RecordStatus string

const (
	StatusActive  RecordStatus = "ACTIVE"
	StatusDeleted RecordStatus = "DELETED"
)

// Principal is the decoded, authenticated identity of a request.
// The zero value represents an anonymous caller.
type Principal struct {
	ID   int64
	Role Role
}

type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Enabled      bool         `json:"enabled"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Status       RecordStatus `json:"status"`
}

// File is uploaded-object metadata. The bytes live in the object store;
// ownership is established only through events referencing the file.
type File struct {
	ID       int64        `json:"id"`
	Location string       `json:"location"`
	Status   RecordStatus `json:"status"`
}

// Event links a user to a file and is the sole authorization anchor
// for file access.
type Event struct {
	ID     int64        `json:"id"`
	UserID int64        `json:"user_id"`
	FileID int64        `json:"file_id"`
	Status RecordStatus `json:"status"`
}

// EventWithFile is an event resolved together with its file metadata.
type EventWithFile struct {
	Event
	File File `json:"file"`
}

// UserWithEvents is the aggregate returned by the authorized user lookup.
type UserWithEvents struct {
	User
	Events []EventWithFile `json:"events"`
}
