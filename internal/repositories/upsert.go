package repositories

import (
	"errors"
	"fmt"

	"frame-monitor/internal/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// resolveOrCreate loads the row matching query into row, inserting row when
// none exists. An insert that loses a race against a concurrent duplicate is
// swallowed by the unique index and the winner's row is loaded instead.
func resolveOrCreate[T any](tx *gorm.DB, row *T, query any, args ...any) error {
	var existing T
	err := tx.Where(query, args...).Take(&existing).Error
	if err == nil {
		*row = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var winner T
		if err := tx.Where(query, args...).Take(&winner).Error; err != nil {
			return err
		}
		*row = winner
	}
	return nil
}

// createOrConflict inserts row unless one matching query already exists, in
// which case it fails with apperr.ErrConflict.
func createOrConflict[T any](tx *gorm.DB, row *T, query any, args ...any) error {
	var count int64
	if err := tx.Model(new(T)).Where(query, args...).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.ErrConflict
	}

	if err := tx.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
		return err
	}
	return nil
}
