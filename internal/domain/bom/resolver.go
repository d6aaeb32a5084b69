package bom

import (
	"context"
	"errors"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Resolver resolves the bill of materials for an order item: either the
// product's template for the requested size, or the order's custom BOM for
// bespoke sizing
type Resolver interface {
	Resolve(ctx context.Context, productID, customBOMID *uuid.UUID, size string) (Lines, error)
}

// Repository persists BOM templates and custom BOMs
type Repository interface {
	SaveTemplate(ctx context.Context, template *Template) error
	FindTemplate(ctx context.Context, productID uuid.UUID, size string) (*Template, error)
	SaveCustomBOM(ctx context.Context, custom *CustomBOM) error
	FindCustomBOMByID(ctx context.Context, id uuid.UUID) (*CustomBOM, error)
	FindCustomBOMsByOrderID(ctx context.Context, orderID uuid.UUID) ([]*CustomBOM, error)
}

// RepositoryResolver resolves BOMs from the repository. A custom BOM always
// takes precedence over the product template.
type RepositoryResolver struct {
	repo Repository
}

// NewRepositoryResolver creates a Resolver backed by the BOM repository
func NewRepositoryResolver(repo Repository) *RepositoryResolver {
	return &RepositoryResolver{repo: repo}
}

// Resolve returns the BOM lines for the given product/size or custom BOM
func (r *RepositoryResolver) Resolve(ctx context.Context, productID, customBOMID *uuid.UUID, size string) (Lines, error) {
	if customBOMID != nil {
		custom, err := r.repo.FindCustomBOMByID(ctx, *customBOMID)
		if err != nil {
			return nil, err
		}
		return custom.Lines, nil
	}
	if productID == nil {
		return nil, shared.NewDomainError("INVALID_BOM_REFERENCE", "Either a product or a custom BOM is required")
	}
	template, err := r.repo.FindTemplate(ctx, *productID, size)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code {
			return nil, shared.NewDomainError("BOM_NOT_FOUND", "No bill of materials defined for this product and size")
		}
		return nil, err
	}
	return template.Lines, nil
}
