// Package repository persists invoice drafts with GORM.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mandalorian99/invoiceable/internal/draft/domain"
	"github.com/mandalorian99/invoiceable/pkg/db"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &Repository{db: db}
}

// Migrate creates the drafts table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Draft{})
}

func (r *Repository) Create(ctx context.Context, draft *domain.Draft) error {
	if err := r.db.WithContext(ctx).Create(draft).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDraftExists
		}
		return err
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, draft *domain.Draft) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Draft{}).
		Where("id = ?", draft.ID).
		Updates(map[string]interface{}{
			"title":    draft.Title,
			"document": draft.Document,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (domain.Draft, error) {
	var draft domain.Draft
	err := r.db.WithContext(ctx).First(&draft, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, err
	}
	return draft, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Draft, error) {
	var drafts []domain.Draft
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&drafts).Error
	return drafts, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Draft{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}
