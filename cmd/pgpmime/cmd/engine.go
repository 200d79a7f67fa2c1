package cmd

import (
	"context"

	"github.com/zostay/go-pgpmime/engine"
	"github.com/zostay/go-pgpmime/internal/config"
)

// newOpenPGP returns an OpenPGP engine using the configured keyrings.
func newOpenPGP() (*engine.OpenPGP, error) {
	kr, err := engine.ReadKeyRing(cfg.Keys.KeyRings...)
	if err != nil {
		return nil, err
	}

	var opts []engine.OpenPGPOption
	if cfg.Keys.Passphrase != "" {
		opts = append(opts, engine.WithPassphrases(cfg.Keys.Passphrase))
	}

	log.WithField("keys", len(kr)).Debug("keyring loaded")
	return engine.NewOpenPGP(kr, opts...), nil
}

// newEngine returns the configured engine and a function to release it.
func newEngine(ctx context.Context) (engine.Engine, func() error, error) {
	if cfg.Engine.Kind == config.EngineRemote {
		r, err := engine.StartRemote(ctx, log, cfg.Engine.Command[0], cfg.Engine.Command[1:]...)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}

	e, err := newOpenPGP()
	if err != nil {
		return nil, nil, err
	}
	return e, func() error { return nil }, nil
}
