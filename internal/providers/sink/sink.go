// Package sink ships finished invoices to the remote persistence
// endpoint.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/mandalorian99/invoiceable/internal/config"
	"github.com/mandalorian99/invoiceable/internal/invoice/domain"
)

// SaveFailureMessage is shown to the caller for every save failure.
// Transport detail stays in the logs.
const SaveFailureMessage = "Failed to save invoice. Please try again."

const saveSuccessMessage = "Invoice saved successfully"

// Provider persists a finished invoice document. Save never returns a
// transport error to the caller: failures collapse into a SaveResult
// with Success=false and a stable user-facing message.
type Provider interface {
	Save(ctx context.Context, doc domain.Document) domain.SaveResult
}

type savePayload struct {
	Invoice domain.Document `json:"invoice"`
}

type HTTPSink struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) Provider {
	return &HTTPSink{
		endpoint: cfg.SaveEndpoint,
		client:   &http.Client{Timeout: cfg.SaveTimeout},
		log:      log,
	}
}

func (s *HTTPSink) Save(ctx context.Context, doc domain.Document) domain.SaveResult {
	body, err := json.Marshal(savePayload{Invoice: doc})
	if err != nil {
		s.log.Error("failed to encode invoice for save", zap.Error(err))
		return failure()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		s.log.Error("failed to build save request", zap.Error(err))
		return failure()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("invoice save request failed",
			zap.String("endpoint", s.endpoint),
			zap.Error(err),
		)
		return failure()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("invoice save rejected",
			zap.String("endpoint", s.endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return failure()
	}

	return domain.SaveResult{Success: true, Message: saveSuccessMessage}
}

func failure() domain.SaveResult {
	return domain.SaveResult{Success: false, Message: SaveFailureMessage}
}
