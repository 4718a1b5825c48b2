package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Blog struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title      string             `bson:"title" json:"title" validate:"required"`
	Slug       string             `bson:"slug" json:"slug" validate:"required"`
	CoverImage string             `bson:"coverImage" json:"coverImage"`
	Body       string             `bson:"body" json:"body" validate:"required"`
	Tags       []string           `bson:"tags" json:"tags"`
	Published  bool               `bson:"published" json:"published"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
