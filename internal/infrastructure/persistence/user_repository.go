package persistence

import (
	"context"
	"errors"

	"github.com/agrimarket/backend/internal/domain/identity"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	*GormRepository[identity.User]
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{GormRepository: NewGormRepository[identity.User](db)}
}

// FindByEmail finds a user by email address
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.DB().WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDWithAddresses finds a user with their addresses preloaded
func (r *GormUserRepository) FindByIDWithAddresses(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.FindByIDWithRelations(ctx, id, "Addresses")
}

// SaveAddress inserts or updates a delivery address
func (r *GormUserRepository) SaveAddress(ctx context.Context, address *identity.Address) error {
	return r.DB().WithContext(ctx).Save(address).Error
}

// DeleteAddress removes a delivery address
func (r *GormUserRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := r.DB().WithContext(ctx).Delete(&identity.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetDefaultAddress marks one address as default and clears the flag on the
// user's other addresses in the same transaction
func (r *GormUserRepository) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&identity.Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return tx.Model(&identity.Address{}).
			Where("user_id = ? AND id <> ?", userID, addressID).
			Update("is_default", false).Error
	})
}

// GormVendorProfileRepository implements VendorProfileRepository using GORM
type GormVendorProfileRepository struct {
	*GormRepository[identity.VendorProfile]
}

var _ identity.VendorProfileRepository = (*GormVendorProfileRepository)(nil)

// NewGormVendorProfileRepository creates a new GormVendorProfileRepository
func NewGormVendorProfileRepository(db *gorm.DB) *GormVendorProfileRepository {
	return &GormVendorProfileRepository{GormRepository: NewGormRepository[identity.VendorProfile](db)}
}

// FindByUser finds the vendor profile belonging to a user
func (r *GormVendorProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*identity.VendorProfile, error) {
	var profile identity.VendorProfile
	if err := r.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindVerified finds verified vendor profiles, best rated first
func (r *GormVendorProfileRepository) FindVerified(ctx context.Context, filter shared.Filter) (shared.Paginated[identity.VendorProfile], error) {
	filter.Normalize()

	var total int64
	if err := r.DB().WithContext(ctx).Model(&identity.VendorProfile{}).
		Where("verified = ?", true).
		Count(&total).Error; err != nil {
		return shared.Paginated[identity.VendorProfile]{}, err
	}

	var profiles []identity.VendorProfile
	if err := r.DB().WithContext(ctx).
		Where("verified = ?", true).
		Order("rating DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&profiles).Error; err != nil {
		return shared.Paginated[identity.VendorProfile]{}, err
	}

	return shared.NewPaginated(profiles, total, filter.Page, filter.PageSize), nil
}
