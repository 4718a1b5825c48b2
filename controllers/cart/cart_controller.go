package cartController

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/configs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/responses"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/services/pricing"
)

var userCollection *mongo.Collection = configs.GetCollection(configs.DB(), "users")
var productCollection *mongo.Collection = configs.GetCollection(configs.DB(), "products")

type cartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Variant   string `json:"variant" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func currentUserObjectID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return primitive.NilObjectID, false
	}
	objId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return objId, true
}

// AddToCart stores only (productId, variant, quantity); never a
// price. An existing line for the same product + variant has its
// quantity bumped instead.
func AddToCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjId, ok := currentUserObjectID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var reqBody cartItemRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}
	if reqBody.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Quantity must be at least 1",
			Result:  nil,
		})
	}

	productObjId, err := primitive.ObjectIDFromHex(reqBody.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	var product models.Product
	err = productCollection.FindOne(ctx, bson.M{"_id": productObjId}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Product not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching product",
			Result:  nil,
		})
	}
	if _, ok := product.Variant(reqBody.Variant); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Unknown weight variant for this product",
			Result:  nil,
		})
	}
	if !product.InStock {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Product is out of stock",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjId}).Decode(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user details",
			Result:  nil,
		})
	}

	merged := false
	for i := range user.Cart {
		if user.Cart[i].ProductID == productObjId && user.Cart[i].Variant == reqBody.Variant {
			user.Cart[i].Quantity += reqBody.Quantity
			merged = true
			break
		}
	}
	if !merged {
		user.Cart = append(user.Cart, models.CartItem{
			ProductID: productObjId,
			Variant:   reqBody.Variant,
			Quantity:  reqBody.Quantity,
		})
	}

	if _, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userObjId},
		bson.M{"$set": bson.M{"cart": user.Cart}},
	); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating cart",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Item added to cart",
		Result:  &fiber.Map{"cart": user.Cart},
	})
}

// UpdateCartItem sets the quantity of a cart line; quantity zero
// removes it.
func UpdateCartItem(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjId, ok := currentUserObjectID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var reqBody struct {
		ProductID string `json:"productId" validate:"required"`
		Variant   string `json:"variant" validate:"required"`
		Quantity  int    `json:"quantity" validate:"min=0"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}

	productObjId, err := primitive.ObjectIDFromHex(reqBody.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjId}).Decode(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user details",
			Result:  nil,
		})
	}

	found := false
	cart := make([]models.CartItem, 0, len(user.Cart))
	for _, item := range user.Cart {
		if item.ProductID == productObjId && item.Variant == reqBody.Variant {
			found = true
			if reqBody.Quantity > 0 {
				item.Quantity = reqBody.Quantity
				cart = append(cart, item)
			}
			continue
		}
		cart = append(cart, item)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Item not in cart",
			Result:  nil,
		})
	}

	if _, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userObjId},
		bson.M{"$set": bson.M{"cart": cart}},
	); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating cart",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Cart updated",
		Result:  &fiber.Map{"cart": cart},
	})
}

// RemoveFromCart drops a cart line outright.
func RemoveFromCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjId, ok := currentUserObjectID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var reqBody struct {
		ProductID string `json:"productId" validate:"required"`
		Variant   string `json:"variant" validate:"required"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}

	productObjId, err := primitive.ObjectIDFromHex(reqBody.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	result, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userObjId},
		bson.M{"$pull": bson.M{"cart": bson.M{"productId": productObjId, "variant": reqBody.Variant}}},
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating cart",
			Result:  nil,
		})
	}
	if result.ModifiedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Item not in cart",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Item removed from cart",
		Result:  nil,
	})
}

// GetCart joins the stored (productId, variant, quantity) pairs with
// the catalog and returns the priced breakdown. The delivery city
// comes from the ?city= query or falls back to the default address.
func GetCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjId, ok := currentUserObjectID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjId}).Decode(&user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user details",
			Result:  nil,
		})
	}

	city := c.Query("city")
	if city == "" {
		for _, addr := range user.Addresses {
			if addr.IsDefault {
				city = addr.City
				break
			}
		}
	}

	lines := make([]fiber.Map, 0, len(user.Cart))
	priceLines := make([]pricing.Line, 0, len(user.Cart))
	for _, item := range user.Cart {
		var product models.Product
		if err := productCollection.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
			// Product removed from the catalog; skip the line.
			continue
		}
		variant, ok := product.Variant(item.Variant)
		if !ok {
			continue
		}
		unitPrice := pricing.UnitPrice(product.BasePrice, variant.Multiplier)

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		lines = append(lines, fiber.Map{
			"productId": product.ID.Hex(),
			"name":      product.Name,
			"image":     image,
			"variant":   variant.Label,
			"quantity":  item.Quantity,
			"unitPrice": unitPrice.InexactFloat64(),
		})
		priceLines = append(priceLines, pricing.Line{
			Name:      product.Name,
			UnitPrice: unitPrice,
			Grams:     variant.Grams,
			Quantity:  item.Quantity,
		})
	}

	breakdown := pricing.Compute(priceLines, city, decimal.Zero)

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Cart fetched successfully",
		Result: &fiber.Map{
			"items":     lines,
			"breakdown": breakdown,
		},
	})
}
