package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kevinaaaquil/bookcatalog/middleware"
	"github.com/kevinaaaquil/bookcatalog/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookStore is what the book endpoints need from the catalog store.
// Update and Delete take the caller's id so the store can condition the
// write on ownership.
type BookStore interface {
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	FindBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	UpdateBook(ctx context.Context, id, owner primitive.ObjectID, upd models.BookUpdate) (*models.Book, error)
	DeleteBook(ctx context.Context, id, owner primitive.ObjectID) (*models.Book, error)
	SetBookCover(ctx context.Context, id primitive.ObjectID, coverKey string) error
}

// ObjectStorage holds cover images; *service.S3Service implements it.
type ObjectStorage interface {
	Upload(ctx context.Context, prefix, originalFilename string, body io.Reader, contentType string) (string, error)
	GetObject(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

type BooksHandler struct {
	DB       BookStore
	S3       ObjectStorage // nil when cover storage is not configured
	MaxBytes int64
}

func writeValidation(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "validation failed",
		"fields": fields,
	})
}

func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if problems := req.Validate(); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}
	published, _ := parseDate(req.PublishedDate)
	book := &models.Book{
		Title:         req.Title,
		Author:        req.Author,
		Category:      req.Category,
		Price:         *req.Price,
		Rating:        *req.Rating,
		PublishedDate: published,
		CreatedBy:     userID,
		CreatedAt:     time.Now(),
	}
	id, err := h.DB.InsertBook(r.Context(), book)
	if err != nil {
		http.Error(w, `{"error":"failed to create book"}`, http.StatusInternalServerError)
		return
	}
	book.ID = id
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}

func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	filter, problems := bookFilterFromQuery(r)
	if len(problems) > 0 {
		writeValidation(w, problems)
		return
	}
	books, err := h.DB.FindBooks(r.Context(), filter)
	if err != nil {
		http.Error(w, `{"error":"failed to list books"}`, http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

// Update applies a partial update after the fetch-then-authorize
// sequence: 404 when the book is absent, 403 when the caller is not the
// creator. The store's write is additionally filtered on createdBy, so
// losing a delete race yields 404 rather than a cross-owner mutation.
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if problems := req.Validate(); len(problems) > 0 {
		writeValidation(w, problems)
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if book.CreatedBy != userID {
		http.Error(w, `{"error":"you can only update books that you created"}`, http.StatusForbidden)
		return
	}
	updated, err := h.DB.UpdateBook(r.Context(), id, userID, req.toUpdate())
	if err != nil {
		http.Error(w, `{"error":"failed to update book"}`, http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if book.CreatedBy != userID {
		http.Error(w, `{"error":"you can only delete books that you created"}`, http.StatusForbidden)
		return
	}
	deleted, err := h.DB.DeleteBook(r.Context(), id, userID)
	if err != nil {
		http.Error(w, `{"error":"failed to delete book"}`, http.StatusInternalServerError)
		return
	}
	if deleted == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if h.S3 != nil && deleted.CoverKey != "" {
		_ = h.S3.Delete(r.Context(), deleted.CoverKey)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Book successfully deleted"})
}

// UploadCover stores a cover image for the book. Owner-only, like any
// other mutation of the record.
func (h *BooksHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if book.CreatedBy != userID {
		http.Error(w, `{"error":"you can only update books that you created"}`, http.StatusForbidden)
		return
	}
	if h.S3 == nil {
		http.Error(w, `{"error":"cover storage not configured"}`, http.StatusServiceUnavailable)
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"missing file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, `{"error":"only image uploads are allowed"}`, http.StatusBadRequest)
		return
	}
	key, err := h.S3.Upload(r.Context(), "covers/", header.Filename, file, contentType)
	if err != nil {
		http.Error(w, `{"error":"failed to upload cover"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.SetBookCover(r.Context(), id, key); err != nil {
		_ = h.S3.Delete(r.Context(), key)
		http.Error(w, `{"error":"failed to save cover"}`, http.StatusInternalServerError)
		return
	}
	if book.CoverKey != "" {
		_ = h.S3.Delete(r.Context(), book.CoverKey)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"coverUrl": "/books/" + id.Hex() + "/cover"})
}

// Cover streams the book's stored cover image.
func (h *BooksHandler) Cover(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load book"}`, http.StatusInternalServerError)
		return
	}
	if book == nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if book.CoverKey == "" || h.S3 == nil {
		http.Error(w, `{"error":"no cover"}`, http.StatusNotFound)
		return
	}
	body, contentType, err := h.S3.GetObject(r.Context(), book.CoverKey)
	if err != nil {
		http.Error(w, `{"error":"failed to load cover"}`, http.StatusInternalServerError)
		return
	}
	defer body.Close()
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	io.Copy(w, body)
}
