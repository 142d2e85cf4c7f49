// Package productrepo provides data transfer objects and mapping functions
// for catalog persistence. A package product stores its bill of materials in
// a separate component table.
package productrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// ProductDTO represents the database structure for persisting catalog entries.
type ProductDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU       string    `gorm:"uniqueIndex"`
	Name      string
	IsPackage bool
}

// TableName specifies the database table name for catalog entries.
func (ProductDTO) TableName() string {
	return "products"
}

// ComponentDTO represents one bill-of-materials row of a package product.
type ComponentDTO struct {
	PackageID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ComponentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Ratio       int
}

// TableName specifies the database table name for bill-of-materials rows.
func (ComponentDTO) TableName() string {
	return "product_components"
}

// toDomain converts catalog DTOs back to a product aggregate.
func toDomain(dto ProductDTO, componentDTOs []ComponentDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	components := make([]product.Component, 0, len(componentDTOs))
	for _, componentDTO := range componentDTOs {
		componentID, idErr := kernel.UUIDFromBytes(componentDTO.ComponentID[:])
		if idErr != nil {
			return nil, idErr
		}

		component, compErr := product.NewComponent(componentID, componentDTO.Ratio)
		if compErr != nil {
			return nil, compErr
		}
		components = append(components, component)
	}

	return product.RestoreProduct(id, dto.SKU, dto.Name, dto.IsPackage, components)
}
