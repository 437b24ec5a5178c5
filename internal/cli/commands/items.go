package commands

import (
	"Planzo/internal/cli/api"
	"Planzo/internal/config"
	"Planzo/internal/planner"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type itemAddCmd struct{}

func (itemAddCmd) Name() string        { return "item-add" }
func (itemAddCmd) Description() string { return "Add an idea (to the first column by default)" }
func (itemAddCmd) Usage() string {
	return "item-add [-d <text>] [-c <column>] [-date YYYY-MM-DD] <title...>"
}

func (c itemAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	set := newFlags(c.Name())
	desc := set.String("d", "", "description")
	column := set.String("c", "", "column")
	date := set.String("date", "", "publish date")
	if err := parseFlags(set, args); err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(set.Args(), " "))
	if title == "" {
		return ErrUsage
	}
	when, err := parseDate(*date)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	col := s.Board.FirstColumn()
	if *column != "" {
		if col, _, err = resolveColumn(s.Board, *column); err != nil {
			return err
		}
	}
	it, err := s.Gateway.CreateItem(ctx, api.NewItem{Title: title, Description: *desc, Status: col.ID, CalendarDate: when})
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Added %s %q to %q\n", shortID(it.ID), it.Title, col.Title)
	return nil
}

type itemMoveCmd struct{}

func (itemMoveCmd) Name() string        { return "item-move" }
func (itemMoveCmd) Description() string { return "Move an idea to a column, optionally at a position" }
func (itemMoveCmd) Usage() string       { return "item-move <item> <column> [position]" }

func (itemMoveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return ErrUsage
	}
	pos := 0
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 1 {
			return ErrUsage
		}
		pos = n
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	ref, err := resolveItem(s.Board, args[0])
	if err != nil {
		return err
	}
	dst, _, err := resolveColumn(s.Board, args[1])
	if err != nil {
		return err
	}
	index := len(s.Board.Items(dst.ID))
	if dst.ID == ref.Column {
		index--
	}
	if pos > 0 {
		index = pos - 1
	}
	if err := s.Drag.Start(planner.DragItem); err != nil {
		return err
	}
	if _, err := s.Drag.End(ctx, planner.DropResult{
		DraggableID: ref.Item.ID,
		Type:        planner.DragItem,
		Source:      planner.Position{DroppableID: ref.Column, Index: ref.Index},
		Destination: &planner.Position{DroppableID: dst.ID, Index: index},
	}); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Moved %q to %q\n", ref.Item.Title, dst.Title)
	return nil
}

type itemDeleteCmd struct{}

func (itemDeleteCmd) Name() string        { return "item-delete" }
func (itemDeleteCmd) Description() string { return "Remove an idea from the board" }
func (itemDeleteCmd) Usage() string       { return "item-delete [-y] <item>" }

func (c itemDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	set := newFlags(c.Name())
	yes := set.Bool("y", false, "do not ask for confirmation")
	if err := parseFlags(set, args); err != nil {
		return err
	}
	if set.NArg() != 1 {
		return ErrUsage
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	ref, err := resolveItem(s.Board, set.Arg(0))
	if err != nil {
		return err
	}
	return dropOnTrash(ctx, s.Drag, planner.DropResult{
		DraggableID: ref.Item.ID,
		Type:        planner.DragItem,
		Source:      planner.Position{DroppableID: ref.Column, Index: ref.Index},
	}, *yes, "")
}

type itemScheduleCmd struct{}

func (itemScheduleCmd) Name() string        { return "item-schedule" }
func (itemScheduleCmd) Description() string { return "Set or clear the publish date of an idea" }
func (itemScheduleCmd) Usage() string       { return "item-schedule <item> <YYYY-MM-DD|none>" }

func (itemScheduleCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	when, err := parseDate(args[1])
	if err != nil {
		return err
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	ref, err := resolveItem(s.Board, args[0])
	if err != nil {
		return err
	}
	if err := s.Gateway.ScheduleItem(ctx, ref.Item.ID, when); err != nil {
		return err
	}
	if when == nil {
		fmt.Fprintf(Out, "Cleared the date of %q\n", ref.Item.Title)
		return nil
	}
	fmt.Fprintf(Out, "Scheduled %q for %s\n", ref.Item.Title, when.Format(time.DateOnly))
	return nil
}

func init() {
	RegisterCmd(itemAddCmd{})
	RegisterCmd(itemMoveCmd{})
	RegisterCmd(itemDeleteCmd{})
	RegisterCmd(itemScheduleCmd{})
}
