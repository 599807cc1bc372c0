package brand

import (
	"github.com/storekeep/storekeep/internal/brand/service"
	"go.uber.org/fx"
)

var Module = fx.Module("brand.service",
	fx.Provide(service.New),
)
