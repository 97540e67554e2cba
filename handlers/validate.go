package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kevinaaaquil/bookcatalog/models"
)

// Each request shape gets a Validate method returning a field->message
// map; an empty map means the payload is acceptable. Values are stored
// as sent; trimming happens only for the emptiness checks.

type CreateBookRequest struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Category      string   `json:"category"`
	Price         *float64 `json:"price"`
	Rating        *float64 `json:"rating"`
	PublishedDate string   `json:"publishedDate"`
}

func (r *CreateBookRequest) Validate() map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(r.Title) == "" {
		problems["title"] = "title is required"
	}
	if strings.TrimSpace(r.Author) == "" {
		problems["author"] = "author is required"
	}
	if strings.TrimSpace(r.Category) == "" {
		problems["category"] = "category is required"
	}
	if r.Price == nil {
		problems["price"] = "price is required"
	} else if *r.Price < 0 {
		problems["price"] = "price must be 0 or greater"
	}
	if r.Rating == nil {
		problems["rating"] = "rating is required"
	} else if *r.Rating < 0 || *r.Rating > 5 {
		problems["rating"] = "rating must be between 0 and 5"
	}
	if strings.TrimSpace(r.PublishedDate) == "" {
		problems["publishedDate"] = "publishedDate is required"
	} else if _, err := parseDate(r.PublishedDate); err != nil {
		problems["publishedDate"] = "publishedDate must be an RFC 3339 timestamp or a YYYY-MM-DD date"
	}
	return problems
}

// UpdateBookRequest allows any subset of book fields; absent fields are
// left unchanged. The owner reference is not part of the shape at all.
type UpdateBookRequest struct {
	Title         *string  `json:"title"`
	Author        *string  `json:"author"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	Rating        *float64 `json:"rating"`
	PublishedDate *string  `json:"publishedDate"`
}

func (r *UpdateBookRequest) Validate() map[string]string {
	problems := map[string]string{}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		problems["title"] = "title must not be empty"
	}
	if r.Author != nil && strings.TrimSpace(*r.Author) == "" {
		problems["author"] = "author must not be empty"
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		problems["category"] = "category must not be empty"
	}
	if r.Price != nil && *r.Price < 0 {
		problems["price"] = "price must be 0 or greater"
	}
	if r.Rating != nil && (*r.Rating < 0 || *r.Rating > 5) {
		problems["rating"] = "rating must be between 0 and 5"
	}
	if r.PublishedDate != nil {
		if _, err := parseDate(*r.PublishedDate); err != nil {
			problems["publishedDate"] = "publishedDate must be an RFC 3339 timestamp or a YYYY-MM-DD date"
		}
	}
	return problems
}

// toUpdate converts the request into the store's partial-update shape.
// Call only after Validate has passed.
func (r *UpdateBookRequest) toUpdate() models.BookUpdate {
	upd := models.BookUpdate{
		Title:    r.Title,
		Author:   r.Author,
		Category: r.Category,
		Price:    r.Price,
		Rating:   r.Rating,
	}
	if r.PublishedDate != nil {
		t, _ := parseDate(*r.PublishedDate)
		upd.PublishedDate = &t
	}
	return upd
}

// bookFilterFromQuery reads the list filter from query params. A rating
// param that is not a number in [0,5] is a validation failure.
func bookFilterFromQuery(r *http.Request) (models.BookFilter, map[string]string) {
	q := r.URL.Query()
	filter := models.BookFilter{
		Title:    q.Get("title"),
		Author:   q.Get("author"),
		Category: q.Get("category"),
	}
	if v := q.Get("rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil || rating < 0 || rating > 5 {
			return filter, map[string]string{"rating": "rating must be a number between 0 and 5"}
		}
		filter.Rating = &rating
	}
	return filter, nil
}

// parseDate accepts RFC 3339 ("1965-01-01T00:00:00Z") or a plain
// calendar date ("1965-01-01").
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("unrecognized date format")
}
