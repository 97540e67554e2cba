package store

import (
	"context"
	"regexp"

	"github.com/kevinaaaquil/bookcatalog/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// bookQuery translates a BookFilter into a Mongo query. Title is a
// case-insensitive substring match (quoted so user input is literal);
// author, category and rating match exactly.
func bookQuery(f models.BookFilter) bson.M {
	q := bson.M{}
	if f.Title != "" {
		q["title"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}}
	}
	if f.Author != "" {
		q["author"] = f.Author
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Rating != nil {
		q["rating"] = *f.Rating
	}
	return q
}

// bookSet translates a BookUpdate into a $set document. Only non-nil
// fields are included; createdBy can never appear here.
func bookSet(u models.BookUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Rating != nil {
		set["rating"] = *u.Rating
	}
	if u.PublishedDate != nil {
		set["publishedDate"] = *u.PublishedDate
	}
	return set
}

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// FindBooks lists books matching the filter, newest first (createdAt
// descending); stable for a fixed dataset.
func (db *DB) FindBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, bookQuery(filter), options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookByID returns (nil, nil) when no book has that id.
func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook applies a partial update to the book, but only when owner
// still matches createdBy; the ownership predicate rides in the write's
// filter so check and mutation are atomic at the store. Returns the
// updated document, or (nil, nil) when id+owner matched nothing.
func (db *DB) UpdateBook(ctx context.Context, id, owner primitive.ObjectID, upd models.BookUpdate) (*models.Book, error) {
	set := bookSet(upd)
	if len(set) == 0 {
		return db.BookByID(ctx, id)
	}
	var book models.Book
	err := db.Books().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "createdBy": owner},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes the book when owner matches createdBy. Returns the
// deleted document (so the caller can clean up its cover object), or
// (nil, nil) when id+owner matched nothing.
func (db *DB) DeleteBook(ctx context.Context, id, owner primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOneAndDelete(ctx, bson.M{"_id": id, "createdBy": owner}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SetBookCover records the S3 object key of the book's cover image.
func (db *DB) SetBookCover(ctx context.Context, id primitive.ObjectID, coverKey string) error {
	_, err := db.Books().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"coverKey": coverKey}})
	return err
}
