package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo describes a profile image hosted on Cloudinary.
type Photo struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id,omitempty" json:"public_id,omitempty"`
	Format   string `bson:"format,omitempty" json:"format,omitempty"`
	Bytes    int    `bson:"bytes,omitempty" json:"bytes,omitempty"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Don't return password in JSON

	Photo *Photo `bson:"photo,omitempty" json:"photo,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio   string `bson:"bio,omitempty" json:"bio,omitempty"`
}
