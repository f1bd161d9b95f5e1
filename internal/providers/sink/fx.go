package sink

import "go.uber.org/fx"

var Module = fx.Module("providers.sink",
	fx.Provide(New),
)
