package identity

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users and their addresses
type UserRepository interface {
	shared.Repository[User]
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDWithAddresses(ctx context.Context, id uuid.UUID) (*User, error)
	SaveAddress(ctx context.Context, address *Address) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error
	// SetDefaultAddress marks one address as default and clears the flag
	// on the user's other addresses in the same transaction.
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error
}

// VendorProfileRepository defines persistence operations for vendor profiles
type VendorProfileRepository interface {
	shared.Repository[VendorProfile]
	FindByUser(ctx context.Context, userID uuid.UUID) (*VendorProfile, error)
	FindVerified(ctx context.Context, filter shared.Filter) (shared.Paginated[VendorProfile], error)
}
