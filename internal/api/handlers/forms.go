package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"farm-catalog-server/internal/models"
	"farm-catalog-server/internal/store"
)

type FarmForm struct {
	Name  string `form:"name"`
	City  string `form:"city"`
	Email string `form:"email"`
}

func (f FarmForm) farm() *models.Farm {
	return &models.Farm{Name: f.Name, City: f.City, Email: f.Email}
}

// ProductForm keeps price as text so an empty value means "missing" rather
// than zero.
type ProductForm struct {
	Name     string `form:"name"`
	Price    string `form:"price"`
	Category string `form:"category"`
}

func (f ProductForm) product() (*models.Product, error) {
	p := &models.Product{Name: f.Name, Category: models.Category(f.Category)}

	raw := strings.TrimSpace(f.Price)
	if raw == "" {
		return p, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, store.Invalid(store.ProductModel, models.ValidationErrors{{
			Path:    "price",
			Message: fmt.Sprintf("Cast to Number failed for value %q (type string) at path \"price\"", f.Price),
		}})
	}
	p.Price = &v
	return p, nil
}
