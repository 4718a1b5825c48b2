package blogController

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/configs"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/responses"
)

var blogCollection *mongo.Collection = configs.GetCollection(configs.DB(), "blogs")

// GetBlogs lists published posts, newest first.
func GetBlogs(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	filter := bson.M{"published": true}
	if tag := c.Query("tag"); tag != "" {
		filter["tags"] = tag
	}

	totalBlogs, err := blogCollection.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count blogs",
			Result:  nil,
		})
	}

	findOptions := options.Find()
	findOptions.SetSkip(skip)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var blogs []models.Blog
	cursor, err := blogCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch blogs",
			Result:  nil,
		})
	}
	if err := cursor.All(ctx, &blogs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to parse blogs",
			Result:  nil,
		})
	}

	totalPages := (totalBlogs + limit - 1) / limit

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Blogs fetched successfully",
		Result: &fiber.Map{
			"blogs":       blogs,
			"currentPage": page,
			"totalPages":  totalPages,
			"totalBlogs":  totalBlogs,
		},
	})
}

// GetBlogBySlug returns one published post.
func GetBlogBySlug(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	slug := c.Params("slug")

	var blog models.Blog
	err := blogCollection.FindOne(ctx, bson.M{"slug": slug, "published": true}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Blog not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch blog",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Blog fetched successfully",
		Result:  &fiber.Map{"blog": blog},
	})
}

type blogRequest struct {
	Title      string   `json:"title" validate:"required"`
	Slug       string   `json:"slug" validate:"required"`
	CoverImage string   `json:"coverImage"`
	Body       string   `json:"body" validate:"required"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

func (r *blogRequest) validate() string {
	switch {
	case r.Title == "":
		return "Title is required"
	case r.Slug == "":
		return "Slug is required"
	case r.Body == "":
		return "Body is required"
	}
	return ""
}

func CreateBlog(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var reqBody blogRequest
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
	blog := models.Blog{
		Id:         primitive.NewObjectID(),
		Title:      reqBody.Title,
		Slug:       reqBody.Slug,
		CoverImage: reqBody.CoverImage,
		Body:       reqBody.Body,
		Tags:       reqBody.Tags,
		Published:  reqBody.Published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := blogCollection.InsertOne(ctx, blog); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error creating blog",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Blog created successfully",
		Result:  &fiber.Map{"blog": blog},
	})
}

func UpdateBlog(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	blogObjId, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid blog ID format",
			Result:  nil,
		})
	}

	var reqBody blogRequest
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
		"title":      reqBody.Title,
		"slug":       reqBody.Slug,
		"coverImage": reqBody.CoverImage,
		"body":       reqBody.Body,
		"tags":       reqBody.Tags,
		"published":  reqBody.Published,
		"updatedAt":  time.Now(),
	}

	result, err := blogCollection.UpdateOne(ctx, bson.M{"_id": blogObjId}, bson.M{"$set": update})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating blog",
			Result:  nil,
		})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Blog not found",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Blog updated successfully",
		Result:  nil,
	})
}

func DeleteBlog(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	blogObjId, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid blog ID format",
			Result:  nil,
		})
	}

	result, err := blogCollection.DeleteOne(ctx, bson.M{"_id": blogObjId})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error deleting blog",
			Result:  nil,
		})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Blog not found",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Blog deleted successfully",
		Result:  nil,
	})
}
