package commands

import (
	"Planzo/internal/cli/bootstrap"
	"Planzo/internal/cli/repo"
	"Planzo/internal/cli/repo/fs"
	"Planzo/internal/config"
	"Planzo/internal/planner"
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Store хранит токен между запусками CLI.
var Store repo.TokenStore = fs.AuthFSStore{}

// openSession загружает доску текущего пользователя.
func openSession(ctx context.Context, cfg *config.Config) (*bootstrap.Session, error) {
	return bootstrap.OpenBoard(ctx, cfg, Store, nil)
}

// newFlags набор флагов команды, ошибки разбора превращаются в ErrUsage.
func newFlags(name string) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(io.Discard)
	return set
}

func parseFlags(set *flag.FlagSet, args []string) error {
	if err := set.Parse(args); err != nil {
		return ErrUsage
	}
	return nil
}

// confirm задаёт вопрос и ждёт y/yes. Пустой ответ или EOF означает "нет".
func confirm(question string) bool {
	fmt.Fprintf(Out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(In).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// resolveColumn ищет колонку по номеру (с 1), id, названию или началу id.
func resolveColumn(b *planner.Board, ref string) (planner.Column, int, error) {
	cols := b.Columns()
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(cols) {
			return planner.Column{}, -1, fmt.Errorf("column %d: %w", n, planner.ErrIndexRange)
		}
		return cols[n-1], n - 1, nil
	}
	for i, c := range cols {
		if c.ID == ref {
			return c, i, nil
		}
	}
	for i, c := range cols {
		if strings.EqualFold(c.Title, ref) {
			return c, i, nil
		}
	}
	found := -1
	for i, c := range cols {
		if strings.HasPrefix(c.ID, ref) {
			if found >= 0 {
				return planner.Column{}, -1, fmt.Errorf("column %q is ambiguous", ref)
			}
			found = i
		}
	}
	if found < 0 {
		return planner.Column{}, -1, fmt.Errorf("column %q: %w", ref, planner.ErrUnknownColumn)
	}
	return cols[found], found, nil
}

// itemRef найденная идея и её место на доске.
type itemRef struct {
	Item   planner.Item
	Column string
	Index  int
}

// resolveItem ищет идею по id, началу id или точному названию.
func resolveItem(b *planner.Board, ref string) (itemRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return itemRef{}, fmt.Errorf("empty item reference: %w", planner.ErrUnknownItem)
	}
	if it, col, idx, ok := b.Item(ref); ok {
		return itemRef{Item: it, Column: col, Index: idx}, nil
	}
	var byPrefix, byTitle []itemRef
	for _, c := range b.Columns() {
		for i, it := range b.Items(c.ID) {
			r := itemRef{Item: it, Column: c.ID, Index: i}
			if strings.HasPrefix(it.ID, ref) {
				byPrefix = append(byPrefix, r)
			}
			if strings.EqualFold(it.Title, ref) {
				byTitle = append(byTitle, r)
			}
		}
	}
	for _, list := range [][]itemRef{byPrefix, byTitle} {
		switch len(list) {
		case 0:
			continue
		case 1:
			return list[0], nil
		default:
			return itemRef{}, fmt.Errorf("item %q is ambiguous, use a longer id", ref)
		}
	}
	return itemRef{}, fmt.Errorf("item %q: %w", ref, planner.ErrUnknownItem)
}

// parseDate YYYY-MM-DD в полночь UTC; "none" снимает дату.
func parseDate(s string) (*time.Time, error) {
	if strings.EqualFold(s, "none") || s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}
	return &d, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
