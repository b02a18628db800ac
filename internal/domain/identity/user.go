package identity

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole represents the role of a platform user
type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleVendor   UserRole = "VENDOR"
	UserRoleAdmin    UserRole = "ADMIN"
)

// IsValid checks if the role is a valid UserRole
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCustomer, UserRoleVendor, UserRoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the account status of a user
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

// IsValid checks if the status is a valid UserStatus
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusDeleted:
		return true
	}
	return false
}

// User represents a platform account (customer, vendor or admin)
type User struct {
	shared.BaseEntity
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	FullName     string     `gorm:"type:varchar(100);not null"`
	Phone        string     `gorm:"type:varchar(20)"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	Addresses []Address `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a bcrypt-hashed password
func NewUser(email, password, fullName string, role UserRole) (*User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid user role")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		Status:       UserStatusActive,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Address represents a delivery address belonging to a user.
// Province/district/ward codes follow the shipping providers' code sets.
type Address struct {
	shared.BaseEntity
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProvinceCode string    `gorm:"type:varchar(20);not null"`
	DistrictCode string    `gorm:"type:varchar(20);not null"`
	WardCode     string    `gorm:"type:varchar(20);not null"`
	Street       string    `gorm:"type:varchar(255);not null"`
	Receiver     string    `gorm:"type:varchar(100)"`
	Phone        string    `gorm:"type:varchar(20)"`
	IsDefault    bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}
