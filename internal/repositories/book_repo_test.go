package repositories

import (
	"testing"

	"frame-monitor/internal/apperr"
	"frame-monitor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorRegisterIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuthorRepository()

	first, err := repo.Register(db, "test author")
	require.NoError(t, err)
	second, err := repo.Register(db, "test author")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = repo.Register(db, "another author")
	require.NoError(t, err)

	authors, err := repo.List(db, 0, 25)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "test author", authors[0].Name)

	page, err := repo.List(db, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "another author", page[0].Name)
}

func TestBookCreateConflictsOnISBN(t *testing.T) {
	db := newTestDB(t)
	authorID, err := NewAuthorRepository().Register(db, "test author")
	require.NoError(t, err)
	repo := NewBookRepository()

	book := &models.Book{
		Title:       "test book",
		AuthorID:    authorID,
		ISBN:        "9784774142232",
		CoverPath:   "static/images/9784774142232.jpg",
		PublishedAt: mustTime(t, "2020-01-01 00:00:00"),
	}
	id, err := repo.Create(db, book)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = repo.Create(db, &models.Book{
		Title:       "duplicate",
		AuthorID:    authorID,
		ISBN:        "9784774142232",
		PublishedAt: mustTime(t, "2021-01-01 00:00:00"),
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	books, err := repo.List(db, 0, 25)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "test book", books[0].Title)
	assert.Equal(t, "test author", books[0].AuthorName)
	assert.Equal(t, "9784774142232", books[0].ISBN)
	assert.Equal(t, "2020-01-01", books[0].PublishedAt.Format("2006-01-02"))
}
