package invoice

import (
	"go.uber.org/fx"

	"github.com/mandalorian99/invoiceable/internal/invoice/render"
	"github.com/mandalorian99/invoiceable/internal/invoice/service"
)

var Module = fx.Module("invoice.service",
	fx.Provide(render.NewRenderer),
	fx.Provide(service.NewService),
)
