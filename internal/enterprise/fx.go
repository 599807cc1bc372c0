package enterprise

import (
	"github.com/storekeep/storekeep/internal/enterprise/service"
	"go.uber.org/fx"
)

var Module = fx.Module("enterprise.service",
	fx.Provide(service.New),
)
