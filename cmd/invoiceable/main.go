package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/mandalorian99/invoiceable/internal/config"
	"github.com/mandalorian99/invoiceable/internal/draft"
	"github.com/mandalorian99/invoiceable/internal/invoice"
	"github.com/mandalorian99/invoiceable/internal/invoicetemplate"
	"github.com/mandalorian99/invoiceable/internal/observability"
	"github.com/mandalorian99/invoiceable/internal/providers/pdf"
	"github.com/mandalorian99/invoiceable/internal/providers/sink"
	"github.com/mandalorian99/invoiceable/internal/server"
	"github.com/mandalorian99/invoiceable/internal/tax"
	"github.com/mandalorian99/invoiceable/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		// Domain modules
		tax.Module,
		invoicetemplate.Module,
		pdf.Module,
		sink.Module,
		invoice.Module,
		draft.Module,

		// HTTP surface
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
