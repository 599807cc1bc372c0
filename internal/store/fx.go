package store

import (
	"github.com/storekeep/storekeep/internal/store/service"
	"go.uber.org/fx"
)

var Module = fx.Module("store.service",
	fx.Provide(service.New),
)
