package order

import (
	"github.com/storekeep/storekeep/internal/order/repository"
	"github.com/storekeep/storekeep/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
