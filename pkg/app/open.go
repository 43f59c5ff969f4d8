package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/identity"
	"tableflip.dev/amal/pkg/store"
	"tableflip.dev/amal/pkg/store/firestore"
)

// Open builds a Service over the configured backend, signed in as the
// configured user. Callers close Service.Store when done.
func Open(ctx context.Context, cfg *store.Settings, logger *log.Logger) (*Service, error) {
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, err
		}
	}
	priority, err := agenda.ParsePriority(cfg.AgendaPriority)
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch cfg.Backend {
	case store.BackendMemory:
		st = store.NewMemory()
	case store.BackendFirestore:
		fa, err := firestore.NewApp(ctx, firestoreConfig(cfg))
		if err != nil {
			return nil, err
		}
		if st, err = firestore.New(ctx, fa); err != nil {
			return nil, err
		}
	case store.BackendDisk, "":
		if st, err = store.Load(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("app: unknown backend %q", cfg.Backend)
	}

	return &Service{
		Store:    st,
		Identity: identity.Static(cfg.User),
		Clock:    clock.Real{},
		Logger:   logger,
		Priority: priority,
		Cooldown: cfg.OrderCooldown,
	}, nil
}

func firestoreConfig(cfg *store.Settings) firestore.Config {
	return firestore.Config{ProjectID: cfg.FirestoreProject, CredentialsFile: cfg.FirestoreCredentials}
}

// Verifier returns the bearer token verifier for the HTTP server.
func Verifier(ctx context.Context, cfg *store.Settings) (identity.TokenVerifier, error) {
	switch cfg.ServerAuth {
	case "firebase":
		fa, err := firestore.NewApp(ctx, firestoreConfig(cfg))
		if err != nil {
			return nil, err
		}
		return identity.NewFirebaseVerifier(ctx, fa)
	case "jwt", "":
		if cfg.ServerSecret == "" {
			return nil, errors.New("app: server.secret is required for jwt auth")
		}
		return identity.JWTVerifier{Secret: []byte(cfg.ServerSecret)}, nil
	}
	return nil, fmt.Errorf("app: unknown server.auth %q", cfg.ServerAuth)
}
