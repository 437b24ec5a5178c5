// Package bootstrap собирает клиентскую доску: токен из хранилища, HTTP-шлюз, загрузка.
package bootstrap

import (
	"Planzo/internal/cli/api"
	"Planzo/internal/cli/repo"
	"Planzo/internal/config"
	"Planzo/internal/planner"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotLoggedIn в хранилище нет токена.
var ErrNotLoggedIn = errors.New("not logged in, run login first")

// Session то, что нужно командам для работы с доской.
type Session struct {
	Gateway *api.HTTPGateway
	Board   *planner.Board
	Drag    *planner.DragController
	Me      api.Me
	Token   string
}

// Gateway шлюз с токеном из хранилища, без загрузки доски.
func Gateway(cfg *config.Config, store repo.TokenStore) (*api.HTTPGateway, string, error) {
	token, err := store.Load()
	if err != nil || token == "" {
		return nil, "", ErrNotLoggedIn
	}
	return api.NewHTTPGateway(cfg.ServerURL, token), token, nil
}

// OpenBoard загружает доску текущего пользователя. logger может быть nil.
func OpenBoard(ctx context.Context, cfg *config.Config, store repo.TokenStore, logger *zap.SugaredLogger) (*Session, error) {
	gw, token, err := Gateway(cfg, store)
	if err != nil {
		return nil, err
	}
	me, err := gw.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("who am i: %w", err)
	}
	b, err := planner.Load(ctx, gw, me.ID, planner.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Session{Gateway: gw, Board: b, Drag: planner.NewDragController(b), Me: me, Token: token}, nil
}
