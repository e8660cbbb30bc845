package domain

import "encoding/json"

// RoleRef is the role object embedded in a user profile.
type RoleRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// UserProfile models the authenticated back-office user.
type UserProfile struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone string  `json:"phone,omitempty"`
	Role  RoleRef `json:"role"`
}

// RoleKind resolves the profile's role name into the closed Role set.
func (u UserProfile) RoleKind() Role {
	r, _ := ParseRole(u.Role.Name)
	return r
}

// wireRoleRef accepts both "id" and the Mongo-style "_id".
type wireRoleRef struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Name    string `json:"name"`
}

func (w *wireRoleRef) ref() RoleRef {
	if w == nil {
		return RoleRef{}
	}
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	return RoleRef{ID: id, Name: w.Name}
}

// UnmarshalJSON decodes both the canonical shape and the legacy backend shape
// ({"_id": ..., "roleId": {"name": ...}}).
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var w struct {
		ID      string       `json:"id"`
		MongoID string       `json:"_id"`
		Name    string       `json:"name"`
		Email   string       `json:"email"`
		Phone   string       `json:"phone"`
		Role    *wireRoleRef `json:"role"`
		RoleID  *wireRoleRef `json:"roleId"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*u = UserProfile{
		ID:    w.ID,
		Name:  w.Name,
		Email: w.Email,
		Phone: w.Phone,
	}
	if u.ID == "" {
		u.ID = w.MongoID
	}
	switch {
	case w.Role != nil:
		u.Role = w.Role.ref()
	case w.RoleID != nil:
		u.Role = w.RoleID.ref()
	}
	return nil
}

// ProfilePatch carries the profile fields a user may edit elsewhere in the
// app. Nil fields are left untouched by a merge.
type ProfilePatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// Apply returns u with the non-nil patch fields merged in.
func (p ProfilePatch) Apply(u UserProfile) UserProfile {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	return u
}

// LoginCredentials is the body of POST /auth/login.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AuthResult is what register and login return on success.
type AuthResult struct {
	User         UserProfile `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Credential extracts the token pair.
func (r AuthResult) Credential() Credential {
	return Credential{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}
