package vendors

import (
	"github.com/storekeep/storekeep/internal/vendors/service"
	"go.uber.org/fx"
)

var Module = fx.Module("vendor.service",
	fx.Provide(service.New),
)
