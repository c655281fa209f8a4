package models

import "strings"

// User is a managed user record. ID is assigned once at creation.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch carries a partial update; nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

// MatchesTerm reports whether the user's name contains term, ignoring case.
// An empty term matches every user.
func (u User) MatchesTerm(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), strings.ToLower(term))
}

// FilterUsers returns the users whose name contains term, preserving order.
func FilterUsers(users []User, term string) []User {
	if term == "" {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.MatchesTerm(term) {
			out = append(out, u)
		}
	}
	return out
}
