package commands

import (
	"Planzo/internal/cli/api"
	"Planzo/internal/cli/bootstrap"
	"Planzo/internal/cli/repo/fs"
	"Planzo/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// authenticate отправляет логин/пароль и сохраняет полученный cookie.
func authenticate(ctx context.Context, cfg *config.Config, path, login, password string) (int, string, error) {
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + path
	resp, body, err := api.DoJSON(ctx, http.MethodPost, endpoint, credentials{Login: login, Password: password}, "")
	if err != nil {
		return 0, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, strings.TrimSpace(string(body)), nil
	}
	if err := api.PersistAuthFromResponse(resp); err != nil {
		return 0, "", fmt.Errorf("saving auth: %w", err)
	}
	if err := (fs.AuthFSStore{}).SaveLogin(login); err != nil {
		return 0, "", fmt.Errorf("saving login: %w", err)
	}
	return http.StatusOK, "", nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth cookie" }
func (loginCmd) Usage() string       { return "login <login> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	code, body, err := authenticate(ctx, cfg, "/api/user/login", args[0], args[1])
	if err != nil {
		return err
	}
	switch code {
	case http.StatusOK:
		fmt.Fprintln(Out, "Logged in successfully")
		return nil
	case http.StatusUnauthorized:
		return errors.New("invalid login or password")
	default:
		return fmt.Errorf("server error: %s", body)
	}
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and log in" }
func (registerCmd) Usage() string       { return "register <login> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	code, body, err := authenticate(ctx, cfg, "/api/user/register", args[0], args[1])
	if err != nil {
		return err
	}
	switch code {
	case http.StatusOK:
		fmt.Fprintf(Out, "Registered as %s\n", args[0])
		return nil
	case http.StatusConflict:
		return errors.New("login already in use")
	case http.StatusBadRequest:
		return errors.New("login and password must not be empty")
	default:
		return fmt.Errorf("server error: %s", body)
	}
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "End the session and forget the stored token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	gw, _, err := bootstrap.Gateway(cfg, Store)
	if errors.Is(err, bootstrap.ErrNotLoggedIn) {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	// сервер мог быть недоступен, локальный токен удаляем всё равно
	if err := gw.Logout(ctx); err != nil && !errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintf(Out, "server logout failed: %v\n", err)
	}
	if err := Store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the logged in account" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	gw, _, err := bootstrap.Gateway(cfg, Store)
	if err != nil {
		return err
	}
	me, err := gw.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "%s (id %d)\n", me.Login, me.ID)
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(registerCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(whoamiCmd{})
}
