package adminController

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/configs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/responses"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/services/tokens"
)

var productCollection *mongo.Collection = configs.GetCollection(configs.DB(), "products")
var orderCollection *mongo.Collection = configs.GetCollection(configs.DB(), "orders")
var userCollection *mongo.Collection = configs.GetCollection(configs.DB(), "users")

var tokenService = tokens.NewService(configs.EnvJwtSecret())

// AdminLogin signs in back-office users. Same credential check as the
// storefront signin, but only admin-role accounts get a token here.
func AdminLogin(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": reqBody.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "User with this account does not exist",
			Result:  nil,
		})
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching from database",
			Result:  nil,
		})
	}

	if user.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(responses.ApiResponse{
			Status:  fiber.StatusForbidden,
			Message: "Admin access required",
			Result:  nil,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqBody.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Incorrect password",
			Result:  nil,
		})
	}

	token, err := tokenService.NewSessionToken(user.Id.Hex(), user.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error while generating jwt token",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Admin signed in successfully",
		Result: &fiber.Map{"data": fiber.Map{
			"id":    user.Id.Hex(),
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
			"token": token,
		}},
	})
}

type productRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Slug        string                 `json:"slug" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	Category    string                 `json:"category" validate:"required"`
	MilkType    string                 `json:"milkType"`
	BasePrice   float64                `json:"basePrice" validate:"required,gt=0"`
	Variants    []models.WeightVariant `json:"variants" validate:"required,min=1,dive"`
	Images      []string               `json:"images" validate:"required,min=1,dive"`
	InStock     bool                   `json:"inStock"`
	Featured    bool                   `json:"featured"`
}

func (r *productRequest) validate() string {
	switch {
	case r.Name == "":
		return "Name is required"
	case r.Slug == "":
		return "Slug is required"
	case r.Description == "":
		return "Description is required"
	case r.Category == "":
		return "Category is required"
	case r.BasePrice <= 0:
		return "Base price must be greater than zero"
	case len(r.Variants) == 0:
		return "At least one weight variant is required"
	case len(r.Images) == 0:
		return "At least one image is required"
	}
	for _, v := range r.Variants {
		if v.Label == "" || v.Grams <= 0 || v.Multiplier <= 0 {
			return "Each variant needs a label, weight and multiplier"
		}
	}
	return ""
}

func CreateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody productRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}
	if msg := reqBody.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: msg,
			Result:  nil,
		})
	}

	now := time.Now()
	product := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        reqBody.Name,
		Slug:        reqBody.Slug,
		Description: reqBody.Description,
		Category:    reqBody.Category,
		MilkType:    reqBody.MilkType,
		BasePrice:   reqBody.BasePrice,
		Variants:    reqBody.Variants,
		Images:      reqBody.Images,
		InStock:     reqBody.InStock,
		Featured:    reqBody.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := productCollection.InsertOne(ctx, product); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error creating product",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Product created successfully",
		Result:  &fiber.Map{"product": product},
	})
}

func UpdateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productObjId, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	var reqBody productRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}
	if msg := reqBody.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: msg,
			Result:  nil,
		})
	}

	update := bson.M{
		"name":        reqBody.Name,
		"slug":        reqBody.Slug,
		"description": reqBody.Description,
		"category":    reqBody.Category,
		"milkType":    reqBody.MilkType,
		"basePrice":   reqBody.BasePrice,
		"variants":    reqBody.Variants,
		"images":      reqBody.Images,
		"inStock":     reqBody.InStock,
		"featured":    reqBody.Featured,
		"updatedAt":   time.Now(),
	}

	result, err := productCollection.UpdateOne(ctx, bson.M{"_id": productObjId}, bson.M{"$set": update})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating product",
			Result:  nil,
		})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Product not found",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Product updated successfully",
		Result:  nil,
	})
}

func DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productObjId, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	result, err := productCollection.DeleteOne(ctx, bson.M{"_id": productObjId})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error deleting product",
			Result:  nil,
		})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Product not found",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Product deleted successfully",
		Result:  nil,
	})
}

// GetAllOrders lists every order, newest first, with optional status
// filter and pagination.
func GetAllOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	if err != nil || limit < 1 {
		limit = 20
	}
	skip := (page - 1) * limit

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	totalOrders, err := orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count orders",
			Result:  nil,
		})
	}

	findOptions := options.Find()
	findOptions.SetSkip(skip)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var orders []models.Order
	cursor, err := orderCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch orders",
			Result:  nil,
		})
	}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to parse orders",
			Result:  nil,
		})
	}

	totalPages := (totalOrders + limit - 1) / limit

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Orders fetched successfully",
		Result: &fiber.Map{
			"orders":      orders,
			"currentPage": page,
			"totalPages":  totalPages,
			"totalOrders": totalOrders,
		},
	})
}

// UpdateOrderStatus applies field-level updates to an order: status,
// tracking number, courier, estimated delivery and notes, each only
// when present in the request. Status changes are validated against
// the fulfillment state machine, so a delivered order cannot slide
// back to placed.
func UpdateOrderStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		OrderID           string `json:"orderId" validate:"required"`
		Status            string `json:"status"`
		TrackingNumber    string `json:"trackingNumber"`
		Courier           string `json:"courier"`
		EstimatedDelivery string `json:"estimatedDelivery"`
		Notes             string `json:"notes"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request format",
			Result:  nil,
		})
	}
	if reqBody.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order ID is required",
			Result:  nil,
		})
	}

	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"orderId": reqBody.OrderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Order not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch order",
			Result:  nil,
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if reqBody.Status != "" {
		if !models.CanTransition(order.Status, reqBody.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Cannot move order from " + order.Status + " to " + reqBody.Status,
				Result:  nil,
			})
		}
		update["status"] = reqBody.Status
	}
	if reqBody.TrackingNumber != "" {
		update["trackingNumber"] = reqBody.TrackingNumber
	}
	if reqBody.Courier != "" {
		update["courier"] = reqBody.Courier
	}
	if reqBody.EstimatedDelivery != "" {
		eta, err := time.Parse(time.RFC3339, reqBody.EstimatedDelivery)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Estimated delivery must be an RFC3339 timestamp",
				Result:  nil,
			})
		}
		update["estimatedDelivery"] = eta
	}
	if reqBody.Notes != "" {
		update["notes"] = reqBody.Notes
	}

	if _, err := orderCollection.UpdateOne(ctx,
		bson.M{"orderId": reqBody.OrderID},
		bson.M{"$set": update},
	); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update order: " + err.Error(),
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Order updated successfully",
		Result:  nil,
	})
}

// GetDashboardStats returns the counters the admin dashboard shows.
func GetDashboardStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	totalProducts, err := productCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error counting products",
			Result:  nil,
		})
	}

	totalOrders, err := orderCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error counting orders",
			Result:  nil,
		})
	}

	// Revenue counts only completed payments.
	pipeline := []bson.M{
		{"$match": bson.M{"paymentStatus": models.PaymentCompleted}},
		{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$totalAmount"}}},
	}
	cursor, err := orderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error computing revenue",
			Result:  nil,
		})
	}
	revenue := 0.0
	var results []bson.M
	if err := cursor.All(ctx, &results); err == nil && len(results) > 0 {
		if v, ok := results[0]["revenue"].(float64); ok {
			revenue = v
		}
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Stats fetched successfully",
		Result: &fiber.Map{
			"totalProducts": totalProducts,
			"totalOrders":   totalOrders,
			"revenue":       revenue,
		},
	})
}
