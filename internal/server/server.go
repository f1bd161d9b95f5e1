// Package server exposes the invoice builder over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mandalorian99/invoiceable/internal/config"
	draftdomain "github.com/mandalorian99/invoiceable/internal/draft/domain"
	invoicedomain "github.com/mandalorian99/invoiceable/internal/invoice/domain"
	"github.com/mandalorian99/invoiceable/internal/invoicetemplate"
	"github.com/mandalorian99/invoiceable/internal/observability"
	obslogger "github.com/mandalorian99/invoiceable/internal/observability/logger"
	obsmetrics "github.com/mandalorian99/invoiceable/internal/observability/metrics"
	"github.com/mandalorian99/invoiceable/internal/tax"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterAPIRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(metrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	invoiceSvc invoicedomain.Service
	draftSvc   draftdomain.Service
	registry   *invoicetemplate.Registry
	catalog    *tax.Catalog
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	InvoiceSvc invoicedomain.Service
	DraftSvc   draftdomain.Service
	Registry   *invoicetemplate.Registry
	Catalog    *tax.Catalog
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		invoiceSvc: p.InvoiceSvc,
		draftSvc:   p.DraftSvc,
		registry:   p.Registry,
		catalog:    p.Catalog,
	}
}

// RegisterAPIRoutes mounts the builder API.
func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/templates", s.listTemplates)
	api.GET("/templates/:id", s.getTemplate)
	api.GET("/taxes", s.listTaxes)

	invoices := api.Group("/invoices")
	invoices.GET("/new", s.newInvoice)
	invoices.POST("/compute", s.computeInvoice)
	invoices.POST("/validate", s.validateInvoice)
	invoices.POST("/apply-template", s.applyTemplate)
	invoices.POST("/items", s.addItem)
	invoices.POST("/update-item", s.updateItem)
	invoices.POST("/remove-item", s.removeItem)
	invoices.POST("/toggle-tax", s.toggleTax)
	invoices.POST("/render", s.renderInvoice)
	invoices.POST("/export", s.exportInvoice)
	invoices.POST("/save", s.saveInvoice)

	drafts := api.Group("/drafts")
	drafts.POST("", s.createDraft)
	drafts.GET("", s.listDrafts)
	drafts.GET("/:id", s.getDraft)
	drafts.PUT("/:id", s.updateDraft)
	drafts.DELETE("/:id", s.deleteDraft)
}
