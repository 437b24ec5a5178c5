package tui

import (
	"Planzo/internal/planner"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var b strings.Builder

	header := TitleStyle.Render("Planzo")
	if m.who != "" {
		header += SubtitleStyle.Render(" " + m.who)
	}
	if m.busy {
		header += SubtitleStyle.Render("  saving…")
	}
	b.WriteString(header + "\n\n")

	cols := m.board.Columns()
	items := m.board.ItemsByColumn()
	focus := m.cur.Col
	if m.carry != nil {
		focus = m.carry.Target.Col
	}
	perPage := len(cols)
	if m.width > 0 {
		perPage = (m.width - trashWidth) / (columnWidth + 4)
	}
	start, end := visibleRange(len(cols), focus, perPage)

	rendered := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		rendered = append(rendered, m.renderColumn(i, cols[i], items[cols[i].ID]))
	}
	rendered = append(rendered, m.renderTrash())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n")
	if start > 0 || end < len(cols) {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf(" columns %d-%d of %d", start+1, end, len(cols))) + "\n")
	}

	if pd, ok := m.drag.Pending(); ok {
		b.WriteString("\n" + m.renderConfirm(pd, cols) + "\n")
	}
	if m.adding {
		b.WriteString("\n New column: " + m.input.View() + "\n")
	}
	if m.toast != "" {
		style := ToastStyle
		if m.toastErr {
			style = ErrorToastStyle
		}
		b.WriteString("\n" + style.Render(m.toast) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

const trashWidth = 12

func (m Model) renderColumn(idx int, col planner.Column, list []planner.Item) string {
	k := m.carry
	focused := m.carry == nil && m.cur.Col == idx

	title := truncate(col.Title, columnWidth-6)
	head := fmt.Sprintf("%s (%d)", title, len(list))
	if idx == 0 {
		head += " *"
	}
	switch {
	case focused && m.cur.Row < 0:
		head = SelectedStyle.Render(head)
	case k != nil && k.Kind == planner.DragColumn && k.SourceCol == idx:
		head = CarriedStyle.Render(head)
	default:
		head = HeaderStyle.Render(head)
	}

	lines := []string{head}
	if k != nil && k.Kind == planner.DragColumn && k.Target.Col == idx && k.Target.Col != k.SourceCol {
		lines = append(lines, DropSlotStyle.Render("▸ "+truncate(k.Name, columnWidth-2)))
	}

	slot := -1
	if k != nil && k.Kind == planner.DragItem && k.Target.Col == idx {
		slot = k.Target.Row
	}
	for i, it := range list {
		if i == slot {
			lines = append(lines, DropSlotStyle.Render("▸ "+truncate(k.Name, columnWidth-2)))
		}
		line := renderCard(it)
		switch {
		case k != nil && k.Kind == planner.DragItem && k.ID == it.ID:
			line = CarriedStyle.Render(line)
		case focused && m.cur.Row == i:
			line = SelectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if slot >= len(list) {
		lines = append(lines, DropSlotStyle.Render("▸ "+truncate(k.Name, columnWidth-2)))
	}
	if len(list) == 0 && slot < 0 {
		lines = append(lines, SubtitleStyle.Render("empty"))
	}

	style := ColumnStyle
	if focused || (k != nil && k.Target.Col == idx) {
		style = FocusedColumnStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderCard(it planner.Item) string {
	line := truncate(it.Title, columnWidth)
	if it.CalendarDate != nil {
		line += "\n" + DateStyle.Render("  "+it.CalendarDate.UTC().Format(time.DateOnly))
	}
	return line
}

func (m Model) renderTrash() string {
	if m.carry != nil || m.drag.State() == planner.AwaitingConfirm {
		return TrashActiveStyle.Render("trash\n  x")
	}
	return TrashStyle.Render("trash\n  x")
}

func (m Model) renderConfirm(pd planner.PendingDelete, cols []planner.Column) string {
	var q string
	if pd.Kind == planner.DragColumn {
		first := ""
		if len(cols) > 0 {
			first = cols[0].Title
		}
		q = fmt.Sprintf("Delete column %q?\nIts ideas move to %q.", pd.Name, first)
	} else {
		q = fmt.Sprintf("Delete idea %q?", pd.Name)
	}
	return DialogStyle.Render(q + "\n\n" + SubtitleStyle.Render("y delete · n keep"))
}
