package invoicetemplate

import "go.uber.org/fx"

var Module = fx.Module("invoicetemplate.registry",
	fx.Provide(NewRegistry),
)
