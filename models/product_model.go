package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightVariant is a sellable weight tier of a cheese. Price for the
// variant is BasePrice * Multiplier; Grams feeds the delivery slab.
type WeightVariant struct {
	Label      string  `bson:"label" json:"label" validate:"required"`
	Grams      int     `bson:"grams" json:"grams" validate:"required,gt=0"`
	Multiplier float64 `bson:"multiplier" json:"multiplier" validate:"required,gt=0"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"productId,omitempty"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Slug        string             `bson:"slug" json:"slug" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	MilkType    string             `bson:"milkType" json:"milkType"`
	// BasePrice is the price of the smallest (200g) variant in rupees.
	BasePrice float64         `bson:"basePrice" json:"basePrice" validate:"required,gt=0"`
	Variants  []WeightVariant `bson:"variants" json:"variants" validate:"required,min=1,dive"`
	Images    []string        `bson:"images" json:"images" validate:"required,min=1,dive"`
	InStock   bool            `bson:"inStock" json:"inStock"`
	Featured  bool            `bson:"featured" json:"featured"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Variant returns the weight variant with the given label.
func (p *Product) Variant(label string) (WeightVariant, bool) {
	for _, v := range p.Variants {
		if v.Label == label {
			return v, true
		}
	}
	return WeightVariant{}, false
}
