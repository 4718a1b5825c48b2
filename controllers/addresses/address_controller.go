package addressController

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/configs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/responses"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/services/addressbook"
)

var userCollection *mongo.Collection = configs.GetCollection(configs.DB(), "users")

// loadUser fetches the user document for the session, answering with
// the right error response when it can't.
func loadUser(c *fiber.Ctx, ctx context.Context) (*models.User, error) {
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
			Message: "Invalid user ID",
			Result:  nil,
		})
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userObjId}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "User not found",
				Result:  nil,
			})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching user details",
			Result:  nil,
		})
	}
	return &user, nil
}

// saveAddresses writes the whole address list back to the user doc.
func saveAddresses(c *fiber.Ctx, ctx context.Context, userId primitive.ObjectID, list []models.Address, message string) error {
	_, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": userId},
		bson.M{"$set": bson.M{"addresses": list}},
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error saving addresses",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Result:  &fiber.Map{"addresses": list},
	})
}

type addressRequest struct {
	Label     string `json:"label"`
	Name      string `json:"name"`
	Street    string `json:"street" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

func (r *addressRequest) validate() string {
	switch {
	case r.Street == "":
		return "Street is required"
	case r.City == "":
		return "City is required"
	case r.State == "":
		return "State is required"
	case r.ZipCode == "":
		return "Zip code is required"
	case r.Phone == "":
		return "Phone is required"
	}
	return ""
}

func AddAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody addressRequest
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

	user, err := loadUser(c, ctx)
	if user == nil {
		return err
	}

	list := addressbook.Add(user.Addresses, models.Address{
		Label:     reqBody.Label,
		Name:      reqBody.Name,
		Street:    reqBody.Street,
		City:      reqBody.City,
		State:     reqBody.State,
		ZipCode:   reqBody.ZipCode,
		Phone:     reqBody.Phone,
		IsDefault: reqBody.IsDefault,
	})

	return saveAddresses(c, ctx, user.Id, list, "Address added successfully")
}

func GetAddresses(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	user, err := loadUser(c, ctx)
	if user == nil {
		return err
	}

	addresses := user.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Addresses fetched successfully",
		Result:  &fiber.Map{"addresses": addresses},
	})
}

func EditAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	addressObjId, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid address ID format",
			Result:  nil,
		})
	}

	var reqBody addressRequest
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

	user, respErr := loadUser(c, ctx)
	if user == nil {
		return respErr
	}

	list, ok := addressbook.Update(user.Addresses, models.Address{
		Id:        addressObjId,
		Label:     reqBody.Label,
		Name:      reqBody.Name,
		Street:    reqBody.Street,
		City:      reqBody.City,
		State:     reqBody.State,
		ZipCode:   reqBody.ZipCode,
		Phone:     reqBody.Phone,
		IsDefault: reqBody.IsDefault,
	})
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Address not found",
			Result:  nil,
		})
	}

	return saveAddresses(c, ctx, user.Id, list, "Address updated successfully")
}

// DeleteAddress removes an address. Deleting the default promotes
// another remaining address, so the book never sits default-less
// while non-empty.
func DeleteAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	addressObjId, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid address ID format",
			Result:  nil,
		})
	}

	user, respErr := loadUser(c, ctx)
	if user == nil {
		return respErr
	}

	list, ok := addressbook.Remove(user.Addresses, addressObjId)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Address not found",
			Result:  nil,
		})
	}

	return saveAddresses(c, ctx, user.Id, list, "Address deleted successfully")
}

func SetDefaultAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	addressObjId, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid address ID format",
			Result:  nil,
		})
	}

	user, respErr := loadUser(c, ctx)
	if user == nil {
		return respErr
	}

	list, ok := addressbook.SetDefault(user.Addresses, addressObjId)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Address not found",
			Result:  nil,
		})
	}

	return saveAddresses(c, ctx, user.Id, list, "Default address updated")
}
