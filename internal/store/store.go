// Package store is the persistence layer for farms and products. Two drivers
// implement it: Mongo for production and Memory for tests and local runs.
package store

import (
	"context"

	"farm-catalog-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model names as they appear in error messages.
const (
	FarmModel    = "Farm"
	ProductModel = "Product"
)

type FarmStore interface {
	ListFarms(ctx context.Context) ([]models.Farm, error)
	FindFarm(ctx context.Context, id string) (*models.Farm, error)
	CreateFarm(ctx context.Context, farm *models.Farm) error
	DeleteFarm(ctx context.Context, id string) error

	// FarmProducts resolves farm.Products in list order. Ids without a
	// document are skipped.
	FarmProducts(ctx context.Context, farm *models.Farm) ([]models.Product, error)

	// AddProductToFarm appends a new product id to farm, points the product
	// back at farm, then inserts the product. The two writes are separate
	// unless the driver was configured for transactions.
	AddProductToFarm(ctx context.Context, farm *models.Farm, product *models.Product) error
}

type ProductStore interface {
	// ListProducts returns every product, or only those of category when it is set.
	ListProducts(ctx context.Context, category models.Category) ([]models.Product, error)
	FindProduct(ctx context.Context, id string) (*models.Product, error)

	// ProductFarm resolves product.Farm. A missing farm yields nil, nil.
	ProductFarm(ctx context.Context, product *models.Product) (*models.Farm, error)
	CreateProduct(ctx context.Context, product *models.Product) error

	// UpdateProduct replaces name, price and category of product id and
	// returns the stored document.
	UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Store is what the HTTP layer is built on.
type Store interface {
	FarmStore
	ProductStore
	Close(ctx context.Context) error
}

func parseID(model, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, CastFailed(model, "_id", id, "ObjectId", err)
	}
	return oid, nil
}

func validateFarm(farm *models.Farm) error {
	if err := models.Validate(farm); err != nil {
		return Invalid(FarmModel, err)
	}
	return nil
}

func validateProduct(product *models.Product) error {
	if err := models.Validate(product); err != nil {
		return Invalid(ProductModel, err)
	}
	return nil
}

// orderByIDs returns the products matching ids, in the order of ids.
func orderByIDs(ids []primitive.ObjectID, found []models.Product) []models.Product {
	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
