package orderController

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/configs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/mailer"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/responses"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/services/addressbook"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/services/payments"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/services/pricing"
)

var orderCollection *mongo.Collection = configs.GetCollection(configs.DB(), "orders")
var userCollection *mongo.Collection = configs.GetCollection(configs.DB(), "users")
var productCollection *mongo.Collection = configs.GetCollection(configs.DB(), "products")

var paymentService = payments.NewService(
	payments.NewRazorpayGateway(configs.EnvRazorpayKeyId(), configs.EnvRazorpayKeySecret()),
	payments.NewMongoOrderStore(orderCollection, userCollection),
	mailer.NewService(
		configs.EnvSmtpHost(),
		configs.EnvSmtpPort(),
		configs.EnvSmtpUser(),
		configs.EnvSmtpPassword(),
		configs.EnvSmtpFrom(),
	),
)

func currentUser(c *fiber.Ctx, ctx context.Context) (*models.User, error) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	userObjId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjId}).Decode(&user); err != nil {
		return nil, c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user details",
			Result:  nil,
		})
	}
	return &user, nil
}

// resolveCheckoutItems joins the user's cart with the catalog so the
// payment service only ever sees server-derived names, weights and
// prices.
func resolveCheckoutItems(ctx context.Context, user *models.User) ([]payments.CheckoutItem, error) {
	items := make([]payments.CheckoutItem, 0, len(user.Cart))
	for _, cartItem := range user.Cart {
		var product models.Product
		if err := productCollection.FindOne(ctx, bson.M{"_id": cartItem.ProductID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return nil, err
		}
		variant, ok := product.Variant(cartItem.Variant)
		if !ok {
			continue
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, payments.CheckoutItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     image,
			Variant:   variant.Label,
			Quantity:  cartItem.Quantity,
			UnitPrice: pricing.UnitPrice(product.BasePrice, variant.Multiplier).InexactFloat64(),
			Grams:     variant.Grams,
		})
	}
	return items, nil
}

// CreateCheckoutSession opens a hosted-checkout session with the
// gateway. Amounts are derived server-side from the cart and the
// chosen address; nothing is written to the database until the
// gateway confirms the payment.
func CreateCheckoutSession(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		AddressID string `json:"addressId" validate:"required"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}

	addressObjId, err := primitive.ObjectIDFromHex(reqBody.AddressID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid address ID format",
			Result:  nil,
		})
	}

	user, respErr := currentUser(c, ctx)
	if user == nil {
		return respErr
	}

	address, ok := addressbook.Find(user.Addresses, addressObjId)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Address not found or doesn't belong to user",
			Result:  nil,
		})
	}

	items, err := resolveCheckoutItems(ctx, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error resolving cart items",
			Result:  nil,
		})
	}

	session, err := paymentService.CreateSession(ctx, user, address, items)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrMissingPhone):
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Shipping address is missing a contact number",
				Result:  nil,
			})
		case errors.Is(err, payments.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Cart is empty",
				Result:  nil,
			})
		case errors.Is(err, payments.ErrBadAmount):
			return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Order amount must be a positive number",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create payment session: " + err.Error(),
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Payment session created",
		Result: &fiber.Map{
			"orderId":        session.OrderID,
			"gatewayOrderId": session.GatewayOrderID,
			"amount":         session.Amount,
			"currency":       session.Currency,
			"breakdown":      session.Breakdown,
			"keyId":          configs.EnvRazorpayKeyId(),
		},
	})
}

// VerifyPayment polls the gateway and materializes the order when the
// payment went through. Safe to call repeatedly: the first confirmed
// verification creates the order, every later call returns it.
func VerifyPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	var reqBody struct {
		OrderID        string `json:"orderId" validate:"required"`
		GatewayOrderID string `json:"gatewayOrderId" validate:"required"`
		AddressID      string `json:"addressId" validate:"required"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if reqBody.OrderID == "" || reqBody.GatewayOrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "orderId and gatewayOrderId are required",
			Result:  nil,
		})
	}

	user, respErr := currentUser(c, ctx)
	if user == nil {
		return respErr
	}

	var address models.Address
	if addressObjId, err := primitive.ObjectIDFromHex(reqBody.AddressID); err == nil {
		address, _ = addressbook.Find(user.Addresses, addressObjId)
	}
	if address.Id.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Address not found or doesn't belong to user",
			Result:  nil,
		})
	}

	items, err := resolveCheckoutItems(ctx, user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error resolving cart items",
			Result:  nil,
		})
	}

	outcome, err := paymentService.VerifyPayment(ctx, user, reqBody.OrderID, reqBody.GatewayOrderID, address, items)
	if err != nil {
		var escalation *payments.EscalationError
		if errors.As(err, &escalation) {
			// Money has moved but the record failed to persist.
			// This needs a human, not a retry.
			return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Payment received but order could not be recorded. Please contact support with your order ID " + reqBody.OrderID,
				Result:  &fiber.Map{"escalate": true, "orderId": reqBody.OrderID},
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to verify payment: " + err.Error(),
			Result:  nil,
		})
	}

	switch outcome.State {
	case "confirmed":
		return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Payment verified successfully",
			Result:  &fiber.Map{"state": outcome.State, "order": outcome.Order},
		})
	case "cancelled":
		return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Payment failed, order cancelled",
			Result:  &fiber.Map{"state": outcome.State, "order": outcome.Order},
		})
	default:
		return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Payment is still processing, try again shortly",
			Result:  &fiber.Map{"state": outcome.State, "retryable": outcome.Retryable},
		})
	}
}

func GetOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}
	userObjId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	filter := bson.M{"userId": userObjId}
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

	cursor, err := orderCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch orders",
			Result:  nil,
		})
	}
	defer cursor.Close(ctx)

	var orders []fiber.Map
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to decode order",
				Result:  nil,
			})
		}

		var simplifiedItems []fiber.Map
		for _, item := range order.Items {
			simplifiedItems = append(simplifiedItems, fiber.Map{
				"name":      item.Name,
				"variant":   item.Variant,
				"quantity":  item.Quantity,
				"unitPrice": item.UnitPrice,
				"image":     item.Image,
			})
		}

		orders = append(orders, fiber.Map{
			"orderId":       order.OrderID,
			"items":         simplifiedItems,
			"status":        order.Status,
			"paymentStatus": order.PaymentStatus,
			"total":         order.TotalAmount,
			"createdAt":     order.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Cursor error",
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

func GetOrderById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}
	userObjId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
	}

	orderId := c.Query("id")
	if orderId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order ID is required",
			Result:  nil,
		})
	}

	var order models.Order
	err = orderCollection.FindOne(ctx, bson.M{"orderId": orderId, "userId": userObjId}).Decode(&order)
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

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Order fetched successfully",
		Result:  &fiber.Map{"order": order},
	})
}
