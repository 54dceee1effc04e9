package services

import (
	"context"
	"time"

	"frame-monitor/internal/apperr"
	"frame-monitor/internal/bookinfo"
	"frame-monitor/internal/imageutil"
	"frame-monitor/internal/models"
	"frame-monitor/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 25
	MaxPageLimit     = 100
	dateLayout       = "2006-01-02"
)

type BookSaveRequest struct {
	Title       string `json:"title" binding:"required,max=256"`
	ISBN        string `json:"isbn" binding:"required,len=13,numeric"`
	CoverPath   string `json:"cover_path" binding:"max=256"`
	AuthorName  string `json:"author_name" binding:"required,max=256"`
	PublishedAt string `json:"published_at" binding:"required,datetime=2006-01-02"`
}

type BookOut struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	ISBN             string `json:"isbn"`
	AuthorName       string `json:"author_name"`
	PublishedAt      string `json:"published_at"`
	CoverBase64Image string `json:"cover_base64_image"`
}

type AuthorOut struct {
	ID         uint   `json:"id"`
	AuthorName string `json:"author_name"`
}

// BookInfoFetcher looks books up by ISBN in an external catalogue.
type BookInfoFetcher interface {
	Fetch(ctx context.Context, isbn string) (*bookinfo.BookInfo, error)
	DownloadCover(ctx context.Context, info *bookinfo.BookInfo, dir string) (string, error)
}

type BookService struct {
	db          *gorm.DB
	repos       *repositories.Repositories
	fetcher     BookInfoFetcher
	coverDir    string
	noImagePath string
	logger      *zap.Logger
}

func NewBookService(db *gorm.DB, repos *repositories.Repositories, fetcher BookInfoFetcher,
	coverDir, noImagePath string, logger *zap.Logger) *BookService {
	return &BookService{
		db:          db,
		repos:       repos,
		fetcher:     fetcher,
		coverDir:    coverDir,
		noImagePath: noImagePath,
		logger:      logger,
	}
}

// Create registers the author if needed and stores the book.
func (s *BookService) Create(ctx context.Context, req *BookSaveRequest) (uint, error) {
	if req.Title == "" || req.AuthorName == "" {
		return 0, apperr.Validation("title and author_name are required")
	}
	if len(req.ISBN) != 13 {
		return 0, apperr.Validation("isbn must be 13 digits, got %q", req.ISBN)
	}
	publishedAt, err := time.Parse(dateLayout, req.PublishedAt)
	if err != nil {
		return 0, apperr.Validation("published_at must be YYYY-MM-DD")
	}

	var bookID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := s.repos.Authors.Register(tx, req.AuthorName)
		if err != nil {
			return err
		}
		bookID, err = s.repos.Books.Create(tx, &models.Book{
			Title:       req.Title,
			AuthorID:    authorID,
			ISBN:        req.ISBN,
			CoverPath:   req.CoverPath,
			PublishedAt: publishedAt,
		})
		return err
	})
	if err != nil {
		s.logger.Warn("failed to create book", zap.String("isbn", req.ISBN), zap.Error(err))
		return 0, err
	}
	s.logger.Info("book created", zap.String("isbn", req.ISBN), zap.Uint("book_id", bookID))
	return bookID, nil
}

// CreateFromISBN looks the book up in the catalogue, downloads its cover and
// stores it.
func (s *BookService) CreateFromISBN(ctx context.Context, isbn string) (uint, error) {
	if len(isbn) != 13 {
		return 0, apperr.Validation("isbn must be 13 digits, got %q", isbn)
	}
	info, err := s.fetcher.Fetch(ctx, isbn)
	if err != nil {
		return 0, err
	}
	coverPath, err := s.fetcher.DownloadCover(ctx, info, s.coverDir)
	if err != nil {
		return 0, err
	}
	return s.Create(ctx, &BookSaveRequest{
		Title:       info.Title,
		ISBN:        isbn,
		CoverPath:   coverPath,
		AuthorName:  info.Author,
		PublishedAt: info.PublishedAt,
	})
}

func (s *BookService) List(ctx context.Context, offset, limit int) ([]BookOut, error) {
	if err := checkPage(offset, limit); err != nil {
		return nil, err
	}
	books, err := s.repos.Books.List(s.db.WithContext(ctx), offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]BookOut, 0, len(books))
	for _, b := range books {
		cover, err := imageutil.EncodeFileOr(b.CoverPath, s.noImagePath)
		if err != nil {
			s.logger.Warn("cover unavailable", zap.String("isbn", b.ISBN), zap.Error(err))
		}
		out = append(out, BookOut{
			ID:               b.ID,
			Title:            b.Title,
			ISBN:             b.ISBN,
			AuthorName:       b.AuthorName,
			PublishedAt:      b.PublishedAt.Format(dateLayout),
			CoverBase64Image: cover,
		})
	}
	return out, nil
}

func (s *BookService) ListAuthors(ctx context.Context, offset, limit int) ([]AuthorOut, error) {
	if err := checkPage(offset, limit); err != nil {
		return nil, err
	}
	authors, err := s.repos.Authors.List(s.db.WithContext(ctx), offset, limit)
	if err != nil {
		return nil, err
	}
	out := make([]AuthorOut, 0, len(authors))
	for _, a := range authors {
		out = append(out, AuthorOut{ID: a.ID, AuthorName: a.Name})
	}
	return out, nil
}

func checkPage(offset, limit int) error {
	if offset < 0 {
		return apperr.Validation("offset must not be negative")
	}
	if limit < 1 || limit > MaxPageLimit {
		return apperr.Validation("limit must be between 1 and %d", MaxPageLimit)
	}
	return nil
}
