package commands

import (
	"Planzo/internal/cli/api"
	"Planzo/internal/cli/bootstrap"
	"Planzo/internal/config"
	"Planzo/internal/notify"
	"context"
	"errors"
	"fmt"
	"time"
)

type watchCmd struct{}

func (watchCmd) Name() string        { return "watch" }
func (watchCmd) Description() string { return "Print board changes as they happen (Ctrl+C to stop)" }
func (watchCmd) Usage() string       { return "watch" }

func (watchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	_, token, err := bootstrap.Gateway(cfg, Store)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Watching for changes...")
	err = api.Watch(ctx, cfg.ServerURL, token, func(m notify.Message) {
		fmt.Fprintf(Out, "%s  %s changed\n", m.At.Local().Format(time.TimeOnly), m.Type)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() { RegisterCmd(watchCmd{}) }
