package handlers

import (
	"context"
	"fmt"
	"net/http"

	"frame-monitor/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookCatalog interface {
	Create(ctx context.Context, req *services.BookSaveRequest) (uint, error)
	CreateFromISBN(ctx context.Context, isbn string) (uint, error)
	List(ctx context.Context, offset, limit int) ([]services.BookOut, error)
	ListAuthors(ctx context.Context, offset, limit int) ([]services.AuthorOut, error)
}

type BookHandler struct {
	books  BookCatalog
	logger *zap.Logger
}

func NewBookHandler(books BookCatalog, logger *zap.Logger) *BookHandler {
	return &BookHandler{books: books, logger: logger}
}

func (h *BookHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/books", h.CreateBook)
	r.POST("/books/openbd", h.CreateBookFromOpenBD)
	r.GET("/books", h.ListBooks)
	r.GET("/authors", h.ListAuthors)
}

type pageQuery struct {
	Offset int `form:"offset,default=0" binding:"min=0"`
	Limit  int `form:"limit,default=25" binding:"min=1,max=100"`
}

type isbnQuery struct {
	ISBN string `form:"isbn" binding:"required,len=13,numeric"`
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	var req services.BookSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.books.Create(c.Request.Context(), &req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Book %s saved successfully", req.Title)})
}

func (h *BookHandler) CreateBookFromOpenBD(c *gin.Context) {
	var q isbnQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := h.books.CreateFromISBN(c.Request.Context(), q.ISBN); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Book %s saved successfully", q.ISBN)})
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	books, err := h.books.List(c.Request.Context(), q.Offset, q.Limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *BookHandler) ListAuthors(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	authors, err := h.books.ListAuthors(c.Request.Context(), q.Offset, q.Limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": authors})
}
