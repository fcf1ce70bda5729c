package model

import "time"

// User represents an account record as stored in the `users` table.
// Accounts are owned by the external identity subsystem; this service
// references them as listing hosts and booking/review guests but never
// creates them through the API. The seeder is the only writer.
//
// Fields:
//  ID           – UUID primary key.
//  Username     – unique login name.
//  Email        – contact email address.
//  FirstName    – given name.
//  LastName     – family name.
//  PasswordHash – bcrypt hash; opaque to this service.
//  IsStaff      – privileged account flag; staff rows survive seed --clear.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string    // users.id
	Username     string    // users.username
	Email        string    // users.email
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash
	IsStaff      bool      // users.is_staff
	CreatedAt    time.Time // users.created_at
}
