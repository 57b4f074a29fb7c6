// server/internal/models/farm.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Farm sở hữu danh sách sản phẩm qua id; danh sách chỉ được thêm vào, không tự co lại.
type Farm struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name     string               `bson:"name" json:"name" validate:"required"`
	City     string               `bson:"city" json:"city"`
	Email    string               `bson:"email" json:"email" validate:"required"`
	Products []primitive.ObjectID `bson:"products" json:"products"`
}
