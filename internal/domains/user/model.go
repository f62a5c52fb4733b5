package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account types. The same email may hold one
// account per role, so identity is always the (email, role) pair.
type Role string

const (
	RoleCustomer   Role = "customer"
	RolePharmacist Role = "pharmacist"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RolePharmacist
}

// User is the durable account record. It is created only by a completed
// signup verification and its password only changes through the reset flow.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileDTO is the public profile shape returned by /users/me.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) ToProfileDTO() ProfileDTO {
	return ProfileDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
