// server/internal/models/product.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryFruit     Category = "fruit"
	CategoryVegetable Category = "vegetable"
	CategoryDairy     Category = "dairy"
)

// Categories is the fixed enum offered by the product forms.
var Categories = []Category{CategoryFruit, CategoryVegetable, CategoryDairy}

// Product là một mặt hàng trong danh mục. Farm là tham chiếu yếu: có thể trỏ tới
// một farm đã bị xóa.
type Product struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name     string              `bson:"name" json:"name" validate:"required"`
	Price    *float64            `bson:"price" json:"price" validate:"required,gte=0"`
	Category Category            `bson:"category" json:"category" validate:"required,oneof=fruit vegetable dairy"`
	Farm     *primitive.ObjectID `bson:"farm,omitempty" json:"farm,omitempty"`
}

// PriceValue returns the price or 0 when unset.
func (p Product) PriceValue() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
