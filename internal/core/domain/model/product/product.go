// Package product provides the catalog entities the reconciliation engine
// resolves marketplace SKUs against. A product is either a physical item
// carrying real stock, or a package (kit) that only exists on paper and is
// expanded into its bill-of-materials components at reconciliation time.
package product

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrProductIsNotConstructed is returned when a Product instance was not
	// created through the NewProduct or RestoreProduct factory methods.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct constructor")

	// ErrPackageHasNoComponents is returned when a package product carries an
	// empty bill of materials. A kit with nothing in it cannot be picked.
	ErrPackageHasNoComponents = errors.New("package product must have at least one component")
)

// Component is one bill-of-materials entry: a physical component product and
// how many units of it one package unit contains.
type Component struct {
	productID kernel.UUID
	ratio     int
}

// NewComponent creates a bill-of-materials entry. Ratio must be positive.
func NewComponent(productID kernel.UUID, ratio int) (Component, error) {
	if err := productID.Validate(); err != nil {
		return Component{}, err
	}
	if ratio <= 0 {
		return Component{}, errs.NewValueIsInvalidErrorWithCause("ratio is invalid",
			fmt.Errorf("%d is not greater than 0", ratio))
	}
	return Component{productID: productID, ratio: ratio}, nil
}

// ProductID returns the component product reference.
func (c Component) ProductID() kernel.UUID {
	return c.productID
}

// Ratio returns the component units per one package unit.
func (c Component) Ratio() int {
	return c.ratio
}

// Product is a catalog entry. Packages never carry physical stock; only
// their components do.
type Product struct {
	id         kernel.UUID
	sku        string
	name       string
	isPackage  bool
	components []Component

	isConstructed bool
}

// NewProduct creates a physical (non-package) product.
func NewProduct(id kernel.UUID, sku, name string) (*Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}

	return &Product{
		id:            id,
		sku:           sku,
		name:          name,
		isConstructed: true,
	}, nil
}

// NewPackage creates a package (kit) product with its bill of materials.
func NewPackage(id kernel.UUID, sku, name string, components []Component) (*Product, error) {
	p, err := NewProduct(id, sku, name)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, ErrPackageHasNoComponents
	}

	p.isPackage = true
	p.components = components
	return p, nil
}

// RestoreProduct reconstructs a product from persistence.
func RestoreProduct(id kernel.UUID, sku, name string, isPackage bool, components []Component) (*Product, error) {
	if isPackage {
		return NewPackage(id, sku, name, components)
	}
	return NewProduct(id, sku, name)
}

// Validate ensures the Product instance was properly constructed.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// SKU returns the catalog SKU.
func (p *Product) SKU() string {
	return p.sku
}

// Name returns the display name.
func (p *Product) Name() string {
	return p.name
}

// IsPackage reports whether this product is a kit expanded at
// reconciliation time rather than a physical stock-carrying item.
func (p *Product) IsPackage() bool {
	return p.isPackage
}

// Components returns the bill of materials. Empty for physical products.
func (p *Product) Components() []Component {
	return p.components
}
