package bom

import (
	"context"
	"testing"

	"github.com/garmentflow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines() Lines {
	return Lines{
		{InventoryItemID: uuid.New(), QuantityPerUnit: decimal.NewFromInt(3), Unit: "meter", Piece: "Shirt"},
		{InventoryItemID: uuid.New(), QuantityPerUnit: decimal.NewFromFloat(1.5), Unit: "meter", Piece: "dupatta"},
	}
}

func TestNewTemplate(t *testing.T) {
	t.Run("creates template", func(t *testing.T) {
		template, err := NewTemplate(uuid.New(), "M", testLines())

		require.NoError(t, err)
		assert.Len(t, template.Lines, 2)
	})

	t.Run("fails without size", func(t *testing.T) {
		_, err := NewTemplate(uuid.New(), "", testLines())
		require.Error(t, err)
	})

	t.Run("fails with empty lines", func(t *testing.T) {
		_, err := NewTemplate(uuid.New(), "M", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one line")
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		lines := Lines{{InventoryItemID: uuid.New(), QuantityPerUnit: decimal.Zero, Piece: "shirt"}}
		_, err := NewTemplate(uuid.New(), "M", lines)
		require.Error(t, err)
	})

	t.Run("fails with unnamed piece", func(t *testing.T) {
		lines := Lines{{InventoryItemID: uuid.New(), QuantityPerUnit: decimal.NewFromInt(1), Piece: "  "}}
		_, err := NewTemplate(uuid.New(), "M", lines)
		require.Error(t, err)
	})
}

func TestNewCustomBOM(t *testing.T) {
	t.Run("creates custom BOM for an order", func(t *testing.T) {
		custom, err := NewCustomBOM(uuid.New(), "bridal lehenga", testLines())

		require.NoError(t, err)
		assert.Equal(t, "bridal lehenga", custom.Label)
	})

	t.Run("fails without order", func(t *testing.T) {
		_, err := NewCustomBOM(uuid.Nil, "", testLines())
		require.Error(t, err)
	})
}

func TestLines_ForPiece(t *testing.T) {
	lines := testLines()

	matched := lines.ForPiece(" SHIRT ")
	require.Len(t, matched, 1)
	assert.Equal(t, "Shirt", matched[0].Piece)

	assert.Empty(t, lines.ForPiece("pants"))
}

// fakeBOMRepository backs resolver tests without a database
type fakeBOMRepository struct {
	templates map[string]*Template
	customs   map[uuid.UUID]*CustomBOM
}

func newFakeBOMRepository() *fakeBOMRepository {
	return &fakeBOMRepository{
		templates: make(map[string]*Template),
		customs:   make(map[uuid.UUID]*CustomBOM),
	}
}

func (f *fakeBOMRepository) SaveTemplate(_ context.Context, template *Template) error {
	f.templates[template.ProductID.String()+"/"+template.Size] = template
	return nil
}

func (f *fakeBOMRepository) FindTemplate(_ context.Context, productID uuid.UUID, size string) (*Template, error) {
	template, ok := f.templates[productID.String()+"/"+size]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return template, nil
}

func (f *fakeBOMRepository) SaveCustomBOM(_ context.Context, custom *CustomBOM) error {
	f.customs[custom.ID] = custom
	return nil
}

func (f *fakeBOMRepository) FindCustomBOMByID(_ context.Context, id uuid.UUID) (*CustomBOM, error) {
	custom, ok := f.customs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return custom, nil
}

func (f *fakeBOMRepository) FindCustomBOMsByOrderID(_ context.Context, orderID uuid.UUID) ([]*CustomBOM, error) {
	var result []*CustomBOM
	for _, custom := range f.customs {
		if custom.OrderID == orderID {
			result = append(result, custom)
		}
	}
	return result, nil
}

func TestRepositoryResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves product template by size", func(t *testing.T) {
		repo := newFakeBOMRepository()
		productID := uuid.New()
		template, err := NewTemplate(productID, "M", testLines())
		require.NoError(t, err)
		require.NoError(t, repo.SaveTemplate(ctx, template))

		lines, err := NewRepositoryResolver(repo).Resolve(ctx, &productID, nil, "M")

		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})

	t.Run("custom BOM takes precedence", func(t *testing.T) {
		repo := newFakeBOMRepository()
		custom, err := NewCustomBOM(uuid.New(), "bespoke", testLines()[:1])
		require.NoError(t, err)
		require.NoError(t, repo.SaveCustomBOM(ctx, custom))
		productID := uuid.New()

		lines, err := NewRepositoryResolver(repo).Resolve(ctx, &productID, &custom.ID, "M")

		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})

	t.Run("missing template reports BOM_NOT_FOUND", func(t *testing.T) {
		repo := newFakeBOMRepository()
		productID := uuid.New()

		_, err := NewRepositoryResolver(repo).Resolve(ctx, &productID, nil, "XL")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BOM_NOT_FOUND", domainErr.Code)
	})

	t.Run("fails with no reference at all", func(t *testing.T) {
		repo := newFakeBOMRepository()

		_, err := NewRepositoryResolver(repo).Resolve(ctx, nil, nil, "M")

		require.Error(t, err)
	})
}
