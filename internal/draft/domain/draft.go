// Package domain defines server-side invoice drafts: work-in-progress
// documents stored as JSON so the builder can resume them later.
package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"

	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
)

var (
	ErrDraftNotFound = errors.New("draft_not_found")
	ErrDraftExists   = errors.New("draft_exists")
	ErrInvalidDraft  = errors.New("invalid_draft")
)

// Draft is one stored builder session. The document is kept as the
// exact wire-format JSON so template switches and field changes never
// require a schema migration.
type Draft struct {
	ID        int64          `gorm:"primaryKey" json:"id,string"`
	Title     string         `gorm:"size:200" json:"title"`
	Document  datatypes.JSON `gorm:"type:json" json:"document"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Draft) TableName() string {
	return "invoice_drafts"
}

// Repository is the persistence surface for drafts.
type Repository interface {
	Create(ctx context.Context, draft *Draft) error
	Update(ctx context.Context, draft *Draft) error
	FindByID(ctx context.Context, id int64) (Draft, error)
	List(ctx context.Context) ([]Draft, error)
	Delete(ctx context.Context, id int64) error
}

// Service stores and restores invoice documents as drafts.
type Service interface {
	Create(ctx context.Context, title string, doc invoicedomain.Document) (Draft, error)
	Update(ctx context.Context, id int64, title string, doc invoicedomain.Document) (Draft, error)
	Get(ctx context.Context, id int64) (Draft, invoicedomain.Document, error)
	List(ctx context.Context) ([]Draft, error)
	Delete(ctx context.Context, id int64) error
}
