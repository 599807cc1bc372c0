package auth

import (
	"github.com/storekeep/storekeep/internal/auth/repository"
	"github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/internal/auth/session"
	"github.com/storekeep/storekeep/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		repository.New,
		service.New,
		func(cfg config.Config) *session.Manager {
			return session.NewManager(cfg.AuthCookieSecure)
		},
	),
)
