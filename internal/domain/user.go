package domain

import "time"

// User is an identity record. Email is the identity key.
type User struct {
	ID           int64
	Email        string
	Name         string
	Phone        *string
	Role         Role
	IsActive     bool
	IsStaff      bool
	DateJoined   time.Time
	PasswordHash string
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

// Principal returns the caller view of u.
func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

// UserRef is the public projection of a user embedded in delivery views.
type UserRef struct {
	ID    int64
	Name  string
	Email string
	Phone *string
}
