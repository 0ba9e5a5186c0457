// Package app wires the storefront client from configuration: durable
// storage, the shared state, the gateway, and the session, catalog, and
// cart components on top of it.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shopvine/storefront/config"
	"github.com/shopvine/storefront/internal/cart"
	"github.com/shopvine/storefront/internal/catalog"
	"github.com/shopvine/storefront/internal/gateway"
	"github.com/shopvine/storefront/internal/notify"
	"github.com/shopvine/storefront/internal/session"
	"github.com/shopvine/storefront/internal/state"
	"github.com/shopvine/storefront/internal/storage"
)

// App bundles the wired components. Views reach everything through it.
type App struct {
	State   *state.State
	Gateway *gateway.Client
	Session *session.Store
	Catalog *catalog.Cache
	Cart    *cart.Synchronizer
	Notices *notify.Dedup
}

// New wires an App from config. The notifier receives every user-visible
// notice; pass notify.Stderr{} for a terminal consumer.
func New(cfg config.Config, notifier notify.Notifier) (*App, error) {
	gw, err := gateway.New(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	durable, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	st := state.New()
	notices := notify.NewDedup(notifier)

	sess := session.New(st, gw, durable, notices)
	cartSync := cart.New(st, gw, sess)
	sess.BindCart(cartSync)

	return &App{
		State:   st,
		Gateway: gw,
		Session: sess,
		Catalog: catalog.New(st, gw),
		Cart:    cartSync,
		Notices: notices,
	}, nil
}

func newStore(cfg config.Config) (storage.Store, error) {
	switch cfg.SessionBackend {
	case config.BackendFile:
		return storage.NewFileStore(cfg.SessionFile), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		return storage.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("app: unknown session backend %q", cfg.SessionBackend)
	}
}

// Start performs the startup fan-out the browser front-end ran on mount:
// product load, category load, and session rehydration, concurrently.
// Completion order is unconstrained; each result lands in its own state
// fields. Catalog failures surface as notices and do not block the
// session; a dead session has already been cleared and noticed by the
// session store, so its error is not duplicated here.
func (a *App) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	var productsErr, categoriesErr, sessionErr error

	wg.Add(3)
	go func() {
		defer wg.Done()
		productsErr = a.Catalog.LoadProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		categoriesErr = a.Catalog.LoadCategories(ctx)
	}()
	go func() {
		defer wg.Done()
		sessionErr = a.Session.Rehydrate(ctx)
	}()
	wg.Wait()

	if productsErr != nil {
		a.Notices.Notice("products-load", "Could not load products. Please try again later.")
	}
	if categoriesErr != nil {
		a.Notices.Notice("categories-load", "Could not load categories. Please try again later.")
	}
	if sessionErr != nil && !errors.Is(sessionErr, session.ErrSessionExpired) {
		return sessionErr
	}
	return errors.Join(productsErr, categoriesErr)
}
