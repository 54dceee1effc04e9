package models

import "time"

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:256;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      *Author   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ISBN        string    `gorm:"column:isbn;size:13;not null;uniqueIndex" json:"isbn"`
	CoverPath   string    `gorm:"size:256;not null;default:none" json:"cover_path"`
	PublishedAt time.Time `gorm:"type:date;not null" json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookListing is a Book joined with its author's name.
type BookListing struct {
	ID          uint
	Title       string
	ISBN        string `gorm:"column:isbn"`
	CoverPath   string
	PublishedAt time.Time
	AuthorName  string
}
