package serve

import (
	"context"
	"errors"
	"log"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/server"
	"tableflip.dev/amal/pkg/store"
)

type Serve struct {
	Config  *store.Settings
	Service *app.Service
	Addr    string
	Logger  *log.Logger
}

func (s *Serve) Do(ctx context.Context) error {
	if s.Config == nil {
		return errors.New("serve: missing settings")
	}
	verifier, err := app.Verifier(ctx, s.Config)
	if err != nil {
		return err
	}
	addr := s.Addr
	if addr == "" {
		addr = s.Config.ServerAddr
	}
	return server.New(s.Service, verifier, s.Logger).Listen(ctx, addr)
}
