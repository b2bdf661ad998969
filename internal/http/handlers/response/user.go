package response

import (
	"exzly/internal/core/domain/user"
	"time"
)

type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	FullName   string     `json:"fullName"`
	IsAdmin    bool       `json:"isAdmin"`
	VerifiedAt *time.Time `json:"verifiedAt"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = int64(du.ID)
	u.Email = string(du.Email)
	u.Username = string(du.Username)
	u.FullName = du.FullName
	u.IsAdmin = du.IsAdmin
	u.VerifiedAt = nil
	if du.VerifiedAt.IsPresent {
		verifiedAt := du.VerifiedAt.Value
		u.VerifiedAt = &verifiedAt
	}
}

// Profile omits private fields the viewer is not allowed to see.
type Profile struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email,omitempty"`
	Username   string     `json:"username"`
	FullName   string     `json:"fullName"`
	IsAdmin    bool       `json:"isAdmin"`
	VerifiedAt *time.Time `json:"verifiedAt"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

func (p *Profile) FromDomainUser(du user.User, showEmail bool, showTimestamps bool) {
	u := User{}
	u.FromDomainUser(du)

	p.ID = u.ID
	p.Username = u.Username
	p.FullName = u.FullName
	p.IsAdmin = u.IsAdmin
	p.VerifiedAt = u.VerifiedAt
	p.Email = ""
	if showEmail {
		p.Email = u.Email
	}
	p.CreatedAt, p.UpdatedAt, p.DeletedAt = nil, nil, nil
	if showTimestamps {
		createdAt, updatedAt := du.CreatedAt, du.UpdatedAt
		p.CreatedAt = &createdAt
		p.UpdatedAt = &updatedAt
		if du.DeletedAt.IsPresent {
			deletedAt := du.DeletedAt.Value
			p.DeletedAt = &deletedAt
		}
	}
}
