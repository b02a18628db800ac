package catalog

import (
	"github.com/agrimarket/backend/internal/domain/shared"
)

// Category represents a product category. SerialRequired decides whether
// units of products in this category are tracked individually by serial
// number or only by aggregate quantity.
type Category struct {
	shared.BaseEntity
	Name           string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description    string `gorm:"type:varchar(500)"`
	SerialRequired bool   `gorm:"not null;default:false"`
	Active         bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string, serialRequired bool) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		Description:    description,
		SerialRequired: serialRequired,
		Active:         true,
	}, nil
}
