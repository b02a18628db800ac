package media

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OwnerType identifies which entity kind a media link is attached to
type OwnerType string

const (
	OwnerTypeProduct           OwnerType = "PRODUCT"
	OwnerTypeVendorProfile     OwnerType = "VENDOR_PROFILE"
	OwnerTypeVendorCertificate OwnerType = "VENDOR_CERTIFICATE"
	OwnerTypeBlogPost          OwnerType = "BLOG_POST"
	OwnerTypeForumPost         OwnerType = "FORUM_POST"
)

// IsValid checks if the owner type is valid
func (t OwnerType) IsValid() bool {
	switch t {
	case OwnerTypeProduct, OwnerTypeVendorProfile, OwnerTypeVendorCertificate,
		OwnerTypeBlogPost, OwnerTypeForumPost:
		return true
	}
	return false
}

// MediaLink is a polymorphic attachment record. It carries its own primary
// key and an explicit (OwnerType, OwnerID) pair; owner identity is never
// encoded in the media row's own key.
type MediaLink struct {
	shared.BaseEntity
	OwnerType   OwnerType `gorm:"type:varchar(30);not null;index:idx_media_links_owner,priority:1"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_media_links_owner,priority:2"`
	StorageKey  string    `gorm:"type:varchar(255);not null"`
	URL         string    `gorm:"type:varchar(500);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	SizeBytes   int64     `gorm:"not null;default:0"`
	SortOrder   int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (MediaLink) TableName() string {
	return "media_links"
}

// NewMediaLink creates a new media attachment
func NewMediaLink(ownerType OwnerType, ownerID uuid.UUID, storageKey, url, contentType string, sizeBytes int64) (*MediaLink, error) {
	if !ownerType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OWNER_TYPE", "Invalid media owner type")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	return &MediaLink{
		BaseEntity:  shared.NewBaseEntity(),
		OwnerType:   ownerType,
		OwnerID:     ownerID,
		StorageKey:  storageKey,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
	}, nil
}
