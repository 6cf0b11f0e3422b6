package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role determines which capabilities a user holds. The mapping from
// role to capability lives in the policy package.
type Role string

const (
	RoleGuest       Role = "guest"
	RoleContributor Role = "contributor"
	RoleTranslator  Role = "translator"
	RoleReviewer    Role = "reviewer"
	RoleAdmin       Role = "admin"
)

// User is an account known to the service. Authentication itself is
// handled upstream; handlers only consume the resolved user.
type User struct {
	ID       uuid.UUID
	Username string
	FullName string
	Role     Role
	// Translated counts saved translations, bumped by successful
	// translate and merge operations.
	Translated int
	CreatedAt  time.Time
}

// Anonymous is the zero-value viewer used for unauthenticated requests.
var Anonymous = User{Role: RoleGuest}

// IsAuthenticated reports whether the user is a real account.
func (u User) IsAuthenticated() bool {
	return u.ID != uuid.Nil
}
