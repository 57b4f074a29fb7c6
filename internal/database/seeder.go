// server/internal/database/seeder.go
package database

import (
	"context"
	"fmt"

	"farm-catalog-server/internal/models"
	"farm-catalog-server/internal/store"

	"github.com/rs/zerolog/log"
)

type seedProduct struct {
	Name     string
	Price    float64
	Category models.Category
}

type seedFarm struct {
	Name     string
	City     string
	Email    string
	Products []seedProduct
}

// Dữ liệu mẫu cho môi trường dev.
var demoFarms = []seedFarm{
	{
		Name:  "Full Belly Farms",
		City:  "Guinda, CA",
		Email: "info@fullbelly.example",
		Products: []seedProduct{
			{Name: "Fairy Eggplant", Price: 1.00, Category: models.CategoryVegetable},
			{Name: "Organic Goddess Melon", Price: 4.99, Category: models.CategoryFruit},
		},
	},
	{
		Name:  "Sunny Side Dairy",
		City:  "Tillamook, OR",
		Email: "hello@sunnyside.example",
		Products: []seedProduct{
			{Name: "Whole Milk", Price: 2.69, Category: models.CategoryDairy},
			{Name: "Chocolate Whole Milk", Price: 2.99, Category: models.CategoryDairy},
		},
	},
}

// Sản phẩm không thuộc farm nào.
var demoProducts = []seedProduct{
	{Name: "Organic Mini Seedless Watermelon", Price: 3.99, Category: models.CategoryFruit},
	{Name: "Organic Celery", Price: 1.50, Category: models.CategoryVegetable},
}

// Seed chèn dữ liệu mẫu khi chưa có farm nào. Trả về số farm đã tạo.
func Seed(ctx context.Context, db store.Store) (int, error) {
	existing, err := db.ListFarms(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Info().Int("farms", len(existing)).Msg("catalog already has farms, seeding skipped")
		return 0, nil
	}

	log.Info().Msg("catalog is empty, seeding...")
	for _, sf := range demoFarms {
		farm := &models.Farm{Name: sf.Name, City: sf.City, Email: sf.Email}
		if err := db.CreateFarm(ctx, farm); err != nil {
			return 0, fmt.Errorf("seed farm %q: %w", sf.Name, err)
		}
		for _, sp := range sf.Products {
			if err := db.AddProductToFarm(ctx, farm, sp.product()); err != nil {
				return 0, fmt.Errorf("seed product %q: %w", sp.Name, err)
			}
		}
	}
	for _, sp := range demoProducts {
		if err := db.CreateProduct(ctx, sp.product()); err != nil {
			return 0, fmt.Errorf("seed product %q: %w", sp.Name, err)
		}
	}

	log.Info().Int("farms", len(demoFarms)).Msg("seeding completed")
	return len(demoFarms), nil
}

func (sp seedProduct) product() *models.Product {
	price := sp.Price
	return &models.Product{Name: sp.Name, Price: &price, Category: sp.Category}
}
