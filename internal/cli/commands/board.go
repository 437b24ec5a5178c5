package commands

import (
	"Planzo/internal/config"
	"Planzo/internal/planner"
	"context"
	"fmt"
	"io"
	"time"
)

type boardCmd struct{}

func (boardCmd) Name() string        { return "board" }
func (boardCmd) Description() string { return "Print columns and saved ideas" }
func (boardCmd) Usage() string       { return "board" }

func (boardCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	printBoard(Out, s.Board)
	return nil
}

// printBoard выводит доску колонками сверху вниз.
func printBoard(w io.Writer, b *planner.Board) {
	for i, c := range b.Columns() {
		items := b.Items(c.ID)
		pin := ""
		if i == 0 {
			pin = " *"
		}
		fmt.Fprintf(w, "[%d] %s (%d)%s\n", i+1, c.Title, len(items), pin)
		for _, it := range items {
			date := ""
			if it.CalendarDate != nil {
				date = "  " + it.CalendarDate.UTC().Format(time.DateOnly)
			}
			fmt.Fprintf(w, "    %s  %s%s\n", shortID(it.ID), it.Title, date)
		}
	}
}

func init() { RegisterCmd(boardCmd{}) }
