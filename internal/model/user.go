package model

import "time"

// User is an account that can authenticate against the API.  Admins
// manage the catalog and schedule; customers book tickets.  This
// struct corresponds to a row in the `users` table.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hash of the password.
//  Role         – ADMIN or CUSTOMER.
//  IsActive     – whether the account may log in.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
