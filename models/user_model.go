package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Roles stored on the user document and carried in the session token.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CartItem is deliberately thin: the cart stores only what the user
// picked, never prices. Pricing is derived server-side from the
// catalog at checkout time.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId" validate:"required"`
	Variant   string             `bson:"variant" json:"variant" validate:"required"`
	Quantity  int                `bson:"quantity" json:"quantity" validate:"required,min=1"`
}

type Address struct {
	Id        primitive.ObjectID `bson:"_id" json:"id"`
	Label     string             `bson:"label" json:"label"`
	Name      string             `bson:"name" json:"name"`
	Street    string             `bson:"street" json:"street" validate:"required"`
	City      string             `bson:"city" json:"city" validate:"required"`
	State     string             `bson:"state" json:"state" validate:"required"`
	ZipCode   string             `bson:"zipCode" json:"zipCode" validate:"required"`
	Phone     string             `bson:"phone" json:"phone" validate:"required"`
	IsDefault bool               `bson:"isDefault" json:"isDefault"`
}

type User struct {
	Id       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name" validate:"required"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role" validate:"required,oneof=user admin"`

	Cart      []CartItem           `bson:"cart" json:"cart"`
	Wishlist  []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	Addresses []Address            `bson:"addresses" json:"addresses"`
	// Orders is a denormalized copy of the user's order history,
	// appended at order creation. The orders collection stays
	// authoritative.
	Orders []Order `bson:"orders" json:"orders"`
}
