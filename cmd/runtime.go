package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
	"golang.org/x/net/publicsuffix"

	"github.com/warpdl/warpsession/internal/config"
	"github.com/warpdl/warpsession/pkg/cookiestore"
	"github.com/warpdl/warpsession/pkg/credman"
	"github.com/warpdl/warpsession/pkg/httpclient"
	"github.com/warpdl/warpsession/pkg/logger"
	"github.com/warpdl/warpsession/pkg/persist"
	"github.com/warpdl/warpsession/pkg/session"
)

// env is everything a command needs: the loaded store, its backend and a
// session over it. The store lock is held until close.
type env struct {
	cfg     *config.Config
	log     logger.Logger
	store   *cookiestore.Store
	backend persist.Backend
	session *session.Session
	unlock  func() error
}

var (
	openBackend = persist.Open
	newKeyFunc  = func(cfg *config.Config, l logger.Logger) credman.KeyFunc {
		return credman.ResolveKey(credman.Options{ConfigDir: cfg.Dir, Log: l})
	}
)

// loadConfig loads the config and applies the global flags over it.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if ctx.GlobalIsSet("store") {
		cfg.Store = ctx.GlobalString("store")
	}
	if ctx.GlobalIsSet("backend") {
		cfg.Backend = ctx.GlobalString("backend")
	}
	if ctx.GlobalIsSet("proxy") {
		cfg.Proxy = ctx.GlobalString("proxy")
	}
	if ctx.GlobalIsSet("user-agent") {
		cfg.UserAgent = ctx.GlobalString("user-agent")
	}
	if ctx.GlobalIsSet("max-redirects") {
		cfg.MaxRedirects = ctx.GlobalInt("max-redirects")
	}
	if ctx.GlobalBool("verbose") {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (logger.Logger, error) {
	var loggers []logger.Logger
	if cfg.Debug {
		loggers = append(loggers, logger.NewStandardLogger(log.New(stderr, "", log.LstdFlags)))
	}
	if cfg.LogFile != "" {
		fl, err := logger.NewFileLogger(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fl)
	}
	switch len(loggers) {
	case 0:
		return logger.NewNopLogger(), nil
	case 1:
		return loggers[0], nil
	}
	return logger.NewMultiLogger(loggers...), nil
}

// openEnv locks and loads the cookie store named by the configuration.
func openEnv(ctx *cli.Context) (e *env, err error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	l, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	e = &env{cfg: cfg, log: l}
	defer func() {
		if err != nil {
			e.close()
			e = nil
		}
	}()

	path := cfg.StorePath()
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return e, fmt.Errorf("create store dir: %w", err)
	}
	if e.unlock, err = lockStore(path + ".lock"); err != nil {
		return e, err
	}
	if e.backend, err = openBackend(cfg.Backend, path, newKeyFunc(cfg, l)); err != nil {
		return e, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}

	client, err := httpclient.NewClient(httpclient.Options{
		Proxy:   cfg.Proxy,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return e, err
	}
	headers := append(httpclient.Headers(nil), cfg.Headers...)
	if cfg.UserAgent != "" {
		headers.Update(httpclient.USER_AGENT_KEY, cfg.UserAgent)
	}
	e.store = cookiestore.New(&cookiestore.Options{PublicSuffixList: publicsuffix.List})
	e.session = session.New(client,
		session.WithStore(e.store),
		session.WithLogger(l),
		session.WithHeaders(headers),
		session.WithMaxRedirects(cfg.MaxRedirects),
	)
	if err = e.session.Load(e.backend); err != nil {
		return e, fmt.Errorf("load store: %w", err)
	}
	l.Info("loaded %d cookies from %s", e.store.Len(), path)
	return e, nil
}

func (e *env) save() error {
	if err := e.session.Save(e.backend); err != nil {
		return err
	}
	e.log.Info("saved %d persistent cookies", len(e.store.Persistent()))
	return nil
}

func (e *env) close() error {
	var errs []error
	if e.backend != nil {
		errs = append(errs, e.backend.Close())
	}
	if e.unlock != nil {
		errs = append(errs, e.unlock())
	}
	if e.log != nil {
		errs = append(errs, e.log.Close())
	}
	return errors.Join(errs...)
}
