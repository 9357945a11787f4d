package model

// User represents a dashboard operator account as stored in the `users`
// table. Accounts are created by the seeder and used only for credential
// lookups during sign-in; the plain password is never stored, only its
// bcrypt hash.
//
// Fields:
//  ID           – opaque UUID primary key.
//  Name         – display name.
//  Email        – unique sign-in address.
//  PasswordHash – bcrypt hash of the password (users.password).
type User struct {
	ID           string // users.id
	Name         string // users.name
	Email        string // users.email
	PasswordHash string // users.password
}
