package commands

import (
	"Planzo/internal/cli/tui"
	"Planzo/internal/config"
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

type tuiCmd struct{}

func (tuiCmd) Name() string        { return "tui" }
func (tuiCmd) Description() string { return "Open the interactive board" }
func (tuiCmd) Usage() string       { return "tui" }

func (tuiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	err = tui.Run(ctx, s.Board, s.Drag, s.Me.Login)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func init() { RegisterCmd(tuiCmd{}) }
