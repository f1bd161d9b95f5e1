// Package service stores and restores builder drafts.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/mandalorian99/invoiceable/internal/draft/domain"
	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:   p.Log.Named("draft.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, title string, doc invoicedomain.Document) (domain.Draft, error) {
	payload, err := encodeDocument(doc)
	if err != nil {
		return domain.Draft{}, err
	}

	draft := domain.Draft{
		ID:       s.genID.Generate().Int64(),
		Title:    draftTitle(title, doc),
		Document: payload,
	}
	if err := s.repo.Create(ctx, &draft); err != nil {
		return domain.Draft{}, err
	}

	s.log.Info("draft created", zap.Int64("draft_id", draft.ID))
	return draft, nil
}

func (s *Service) Update(ctx context.Context, id int64, title string, doc invoicedomain.Document) (domain.Draft, error) {
	payload, err := encodeDocument(doc)
	if err != nil {
		return domain.Draft{}, err
	}

	draft := domain.Draft{
		ID:       id,
		Title:    draftTitle(title, doc),
		Document: payload,
	}
	if err := s.repo.Update(ctx, &draft); err != nil {
		return domain.Draft{}, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Draft, invoicedomain.Document, error) {
	draft, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Draft{}, invoicedomain.Document{}, err
	}

	var doc invoicedomain.Document
	if err := json.Unmarshal(draft.Document, &doc); err != nil {
		return domain.Draft{}, invoicedomain.Document{}, fmt.Errorf("%w: %v", domain.ErrInvalidDraft, err)
	}
	return draft, doc, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Draft, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func encodeDocument(doc invoicedomain.Document) (datatypes.JSON, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDraft, err)
	}
	return datatypes.JSON(raw), nil
}

// draftTitle falls back to the invoice number so the list view always
// has something to show.
func draftTitle(title string, doc invoicedomain.Document) string {
	title = strings.TrimSpace(title)
	if title != "" {
		return title
	}
	if doc.InvoiceNumber != "" {
		return doc.InvoiceNumber
	}
	return "Untitled draft"
}
