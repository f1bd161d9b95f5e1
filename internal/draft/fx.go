package draft

import (
	"go.uber.org/fx"

	"github.com/mandalorian99/invoiceable/internal/draft/repository"
	"github.com/mandalorian99/invoiceable/internal/draft/service"
)

var Module = fx.Module("draft",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
	fx.Invoke(repository.Migrate),
)
