package storestock

import (
	"github.com/storekeep/storekeep/internal/storestock/repository"
	"github.com/storekeep/storekeep/internal/storestock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("storestock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
