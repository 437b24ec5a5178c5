package commands

import (
	"Planzo/internal/config"
	"Planzo/internal/planner"
	"context"
	"fmt"
	"strconv"
	"strings"
)

type columnAddCmd struct{}

func (columnAddCmd) Name() string        { return "column-add" }
func (columnAddCmd) Description() string { return "Append a column to the board" }
func (columnAddCmd) Usage() string       { return "column-add <title...>" }

func (columnAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	c, err := s.Board.AddColumn(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Added column %q at position %d\n", c.Title, c.Order+1)
	return nil
}

type columnMoveCmd struct{}

func (columnMoveCmd) Name() string { return "column-move" }
func (columnMoveCmd) Description() string {
	return "Move a column to another position (the first one is pinned)"
}
func (columnMoveCmd) Usage() string { return "column-move <column> <position>" }

func (columnMoveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return ErrUsage
	}
	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	col, src, err := resolveColumn(s.Board, args[0])
	if err != nil {
		return err
	}
	if err := s.Drag.Start(planner.DragColumn); err != nil {
		return err
	}
	out, err := s.Drag.End(ctx, planner.DropResult{
		DraggableID: col.ID,
		Type:        planner.DragColumn,
		Source:      planner.Position{DroppableID: planner.BoardDroppable, Index: src},
		Destination: &planner.Position{DroppableID: planner.BoardDroppable, Index: pos - 1},
	})
	if err != nil {
		return err
	}
	if out == planner.NoOp {
		fmt.Fprintln(Out, "Nothing to move")
		return nil
	}
	fmt.Fprintf(Out, "Moved column %q to position %d\n", col.Title, pos)
	return nil
}

type columnDeleteCmd struct{}

func (columnDeleteCmd) Name() string { return "column-delete" }
func (columnDeleteCmd) Description() string {
	return "Delete a column, its ideas go to the first column"
}
func (columnDeleteCmd) Usage() string { return "column-delete [-y] <column>" }

func (c columnDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
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
	col, idx, err := resolveColumn(s.Board, set.Arg(0))
	if err != nil {
		return err
	}
	return dropOnTrash(ctx, s.Drag, planner.DropResult{
		DraggableID: col.ID,
		Type:        planner.DragColumn,
		Source:      planner.Position{DroppableID: planner.BoardDroppable, Index: idx},
	}, *yes, fmt.Sprintf("their ideas move to %q", s.Board.FirstColumn().Title))
}

// dropOnTrash бросает объект в корзину и подтверждает или отменяет удаление.
func dropOnTrash(ctx context.Context, drag *planner.DragController, res planner.DropResult, yes bool, note string) error {
	if err := drag.Start(res.Type); err != nil {
		return err
	}
	res.Destination = &planner.Position{DroppableID: planner.TrashID}
	if _, err := drag.End(ctx, res); err != nil {
		return err
	}
	pd, ok := drag.Pending()
	if !ok {
		return nil
	}
	question := fmt.Sprintf("Delete %s %q?", kindName(pd.Kind), pd.Name)
	if note != "" {
		question = fmt.Sprintf("Delete %s %q, %s?", kindName(pd.Kind), pd.Name, note)
	}
	if !yes && !confirm(question) {
		drag.Cancel()
		fmt.Fprintln(Out, "Cancelled")
		return nil
	}
	if err := drag.Confirm(ctx); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted %s %q\n", kindName(pd.Kind), pd.Name)
	return nil
}

func kindName(k planner.DragKind) string {
	if k == planner.DragColumn {
		return "column"
	}
	return "idea"
}

func init() {
	RegisterCmd(columnAddCmd{})
	RegisterCmd(columnMoveCmd{})
	RegisterCmd(columnDeleteCmd{})
}
