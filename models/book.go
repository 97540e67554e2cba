package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	Category      string             `bson:"category" json:"category"`
	Price         float64            `bson:"price" json:"price"`
	Rating        float64            `bson:"rating" json:"rating"`
	PublishedDate time.Time          `bson:"publishedDate" json:"publishedDate"`
	CreatedBy     primitive.ObjectID `bson:"createdBy" json:"createdBy"` // owner; set at insert, never updated
	CoverKey      string             `bson:"coverKey,omitempty" json:"-"` // object key in S3
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// BookFilter narrows a listing. Zero-value fields impose no constraint;
// Rating is a pointer so a rating of 0 can still be filtered on.
type BookFilter struct {
	Title    string // case-insensitive substring match
	Author   string // exact match
	Category string // exact match
	Rating   *float64
}

// BookUpdate carries a partial update. Nil fields are left untouched.
type BookUpdate struct {
	Title         *string
	Author        *string
	Category      *string
	Price         *float64
	Rating        *float64
	PublishedDate *time.Time
}
