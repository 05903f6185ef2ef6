package models

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

// Recipient is a read-only directory entry from profiles.
type Recipient struct {
	ID    string  `json:"id" db:"id"`
	Email *string `json:"email,omitempty" db:"email"`
	Name  *string `json:"name,omitempty" db:"full_name"`
	City  *string `json:"city,omitempty" db:"city"`
	State *string `json:"state,omitempty" db:"state"`
}

// UserSummary is a row returned by user search.
type UserSummary struct {
	ID        string  `json:"id" db:"id"`
	FullName  *string `json:"full_name" db:"full_name"`
	Email     *string `json:"email" db:"email"`
	City      *string `json:"city" db:"city"`
	State     *string `json:"state" db:"state"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}

// Identity is what the dashboard knows about an authenticated user.
type Identity struct {
	UserID  string `json:"userId"`
	Email   string `json:"email,omitempty"`
	Role    Role   `json:"role,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

func (i Identity) IsManager() bool {
	return i.Role == RoleManager
}
