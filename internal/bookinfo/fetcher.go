// Package bookinfo looks books up in the openBD catalogue.
package bookinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"frame-monitor/internal/apperr"
	"frame-monitor/internal/logger"

	"github.com/go-resty/resty/v2"
)

const defaultPublishedAt = "1990-01-01"

type BookInfo struct {
	Title       string
	Author      string
	ISBN        string
	Cover       string
	PublishedAt string // YYYY-MM-DD
}

type openBDRecord struct {
	Summary struct {
		Title   string `json:"title"`
		Author  string `json:"author"`
		Cover   string `json:"cover"`
		PubDate string `json:"pubdate"`
	} `json:"summary"`
}

type Fetcher struct {
	client *resty.Client
}

func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Fetcher{client: client}
}

// Fetch returns the book registered under isbn.
func (f *Fetcher) Fetch(ctx context.Context, isbn string) (*BookInfo, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("isbn", isbn).
		Get("/get")
	if err != nil {
		logger.Error("openbd request failed", logger.String("isbn", isbn), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", apperr.ErrExternal, err)
	}
	if resp.IsError() {
		logger.Error("openbd returned error status", logger.String("isbn", isbn), logger.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%w: openbd status %d", apperr.ErrExternal, resp.StatusCode())
	}

	var records []*openBDRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("%w: decode openbd response: %v", apperr.ErrExternal, err)
	}
	if len(records) == 0 || records[0] == nil {
		logger.Warn("book not found in openbd", logger.String("isbn", isbn))
		return nil, fmt.Errorf("%w: book %s", apperr.ErrNotFound, isbn)
	}

	summary := records[0].Summary
	return &BookInfo{
		Title:       summary.Title,
		Author:      summary.Author,
		ISBN:        isbn,
		Cover:       summary.Cover,
		PublishedAt: normalizePubDate(summary.PubDate),
	}, nil
}

// DownloadCover stores the cover as {dir}/{isbn}.jpg. It returns "" when the
// book has no cover.
func (f *Fetcher) DownloadCover(ctx context.Context, info *BookInfo, dir string) (string, error) {
	if info.Cover == "" {
		return "", nil
	}

	resp, err := f.client.R().SetContext(ctx).Get(info.Cover)
	if err != nil {
		return "", fmt.Errorf("%w: download cover: %v", apperr.ErrExternal, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: cover status %d", apperr.ErrExternal, resp.StatusCode())
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", apperr.ErrIO, dir, err)
	}
	path := filepath.Join(dir, info.ISBN+".jpg")
	if err := os.WriteFile(path, resp.Body(), 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", apperr.ErrIO, path, err)
	}
	return path, nil
}

// normalizePubDate turns openBD's YYYYMMDD (sometimes YYYYMM) into YYYY-MM-DD.
func normalizePubDate(pubdate string) string {
	if len(pubdate) < 6 {
		return defaultPublishedAt
	}
	day := "01"
	if len(pubdate) >= 8 {
		day = pubdate[6:8]
	}
	normalized := fmt.Sprintf("%s-%s-%s", pubdate[:4], pubdate[4:6], day)
	if _, err := time.Parse("2006-01-02", normalized); err != nil {
		return defaultPublishedAt
	}
	return normalized
}
