package repositories

import (
	"fmt"

	"frame-monitor/internal/models"

	"gorm.io/gorm"
)

type AuthorRepository struct{}

func NewAuthorRepository() *AuthorRepository {
	return &AuthorRepository{}
}

// Register returns the author's id, creating the author on first sight.
func (r *AuthorRepository) Register(tx *gorm.DB, name string) (uint, error) {
	author := models.Author{Name: name}
	if err := resolveOrCreate(tx, &author, "name = ?", name); err != nil {
		return 0, fmt.Errorf("register author %q: %w", name, err)
	}
	return author.ID, nil
}

func (r *AuthorRepository) List(db *gorm.DB, offset, limit int) ([]models.Author, error) {
	var authors []models.Author
	err := db.Order("id").Offset(offset).Limit(limit).Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

type BookRepository struct{}

func NewBookRepository() *BookRepository {
	return &BookRepository{}
}

// Create inserts the book, failing with apperr.ErrConflict if the ISBN is taken.
func (r *BookRepository) Create(tx *gorm.DB, book *models.Book) (uint, error) {
	if err := createOrConflict(tx, book, "isbn = ?", book.ISBN); err != nil {
		return 0, fmt.Errorf("create book %s: %w", book.ISBN, err)
	}
	return book.ID, nil
}

func (r *BookRepository) List(db *gorm.DB, offset, limit int) ([]models.BookListing, error) {
	var books []models.BookListing
	err := db.Model(&models.Book{}).
		Select("books.id, books.title, books.isbn, books.cover_path, books.published_at, authors.name AS author_name").
		Joins("JOIN authors ON authors.id = books.author_id").
		Order("books.id").
		Offset(offset).
		Limit(limit).
		Scan(&books).Error
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}
