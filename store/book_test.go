package store

import (
	"testing"
	"time"

	"github.com/kevinaaaquil/bookcatalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookQuery(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.Empty(t, bookQuery(models.BookFilter{}))
	})

	t.Run("title becomes a case-insensitive substring regex", func(t *testing.T) {
		q := bookQuery(models.BookFilter{Title: "dune"})
		cond, ok := q["title"].(bson.M)
		require.True(t, ok)
		re, ok := cond["$regex"].(primitive.Regex)
		require.True(t, ok)
		assert.Equal(t, "dune", re.Pattern)
		assert.Equal(t, "i", re.Options)
	})

	t.Run("regex metacharacters in the title are literal", func(t *testing.T) {
		q := bookQuery(models.BookFilter{Title: "C++ (2nd ed.)"})
		re := q["title"].(bson.M)["$regex"].(primitive.Regex)
		assert.Equal(t, `C\+\+ \(2nd ed\.\)`, re.Pattern)
	})

	t.Run("author category and rating match exactly", func(t *testing.T) {
		rating := 4.5
		q := bookQuery(models.BookFilter{Author: "Herbert", Category: "SF", Rating: &rating})
		assert.Equal(t, "Herbert", q["author"])
		assert.Equal(t, "SF", q["category"])
		assert.Equal(t, 4.5, q["rating"])
	})

	t.Run("rating of zero still filters", func(t *testing.T) {
		rating := 0.0
		q := bookQuery(models.BookFilter{Rating: &rating})
		assert.Equal(t, 0.0, q["rating"])
	})
}

func TestBookSet(t *testing.T) {
	t.Run("empty update sets nothing", func(t *testing.T) {
		assert.Empty(t, bookSet(models.BookUpdate{}))
	})

	t.Run("only provided fields are set", func(t *testing.T) {
		price := 20.0
		set := bookSet(models.BookUpdate{Price: &price})
		assert.Equal(t, bson.M{"price": 20.0}, set)
	})

	t.Run("all fields", func(t *testing.T) {
		title := "Dune Messiah"
		author := "Frank Herbert"
		category := "SF"
		price := 12.0
		rating := 4.0
		published := time.Date(1969, 10, 15, 0, 0, 0, 0, time.UTC)
		set := bookSet(models.BookUpdate{
			Title:         &title,
			Author:        &author,
			Category:      &category,
			Price:         &price,
			Rating:        &rating,
			PublishedDate: &published,
		})
		assert.Len(t, set, 6)
		assert.Equal(t, "Dune Messiah", set["title"])
		assert.Equal(t, published, set["publishedDate"])
		// The owner reference can never be part of a $set.
		assert.NotContains(t, set, "createdBy")
	})
}
