package models

import "time"

// UserRole separates administrators from customers.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// User is an account able to open enquiries (customer) or review quotes
// (admin).
type User struct {
	ID             string    `bson:"id" json:"id"`
	Email          string    `bson:"email" json:"email"`
	HashedPassword string    `bson:"hashedPassword" json:"-"`
	FullName       string    `bson:"fullName,omitempty" json:"full_name,omitempty"`
	Role           UserRole  `bson:"role" json:"role"`
	IsActive       bool      `bson:"isActive" json:"is_active"`
	TokenHash      string    `bson:"tokenHash,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updated_at"`
}
