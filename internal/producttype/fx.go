package producttype

import (
	"github.com/storekeep/storekeep/internal/producttype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("producttype.service",
	fx.Provide(service.New),
)
