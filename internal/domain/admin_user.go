package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminRole enumerates administrative access levels.
type AdminRole string

const (
	AdminRoleAdmin   AdminRole = "admin"
	AdminRoleOfficer AdminRole = "officer"
)

// ParseAdminRole validates a raw role value.
func ParseAdminRole(raw string) (AdminRole, bool) {
	switch AdminRole(raw) {
	case AdminRoleAdmin, AdminRoleOfficer:
		return AdminRole(raw), true
	}
	return "", false
}

// AdminUser is an administrator or field officer account.
type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         AdminRole          `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
