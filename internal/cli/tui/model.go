// Package tui рисует интерактивную доску в терминале поверх planner.Board.
package tui

import (
	"Planzo/internal/planner"
	"context"
	"fmt"

	textcursor "github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// opDoneMsg приходит, когда операция с доской закончилась.
type opDoneMsg struct {
	note string
	err  error
}

// Model: состояние экрана доски.
type Model struct {
	ctx   context.Context
	board *planner.Board
	drag  *planner.DragController
	who   string

	keys  keyMap
	help  help.Model
	input textinput.Model

	cur    cursor
	carry  *carry
	adding bool
	busy   bool

	toast    string
	toastErr bool

	width  int
	height int
}

// New собирает модель. who показывается в заголовке.
func New(ctx context.Context, b *planner.Board, d *planner.DragController, who string) Model {
	in := textinput.New()
	in.Placeholder = "Column title"
	in.CharLimit = planner.MaxColumnTitle
	in.Width = columnWidth
	_ = in.Cursor.SetMode(textcursor.CursorStatic)

	return Model{
		ctx:   ctx,
		board: b,
		drag:  d,
		who:   who,
		keys:  defaultKeys(),
		help:  help.New(),
		input: in,
		cur:   cursor{Col: 0, Row: -1},
	}
}

// Run запускает программу и блокируется до выхода.
func Run(ctx context.Context, b *planner.Board, d *planner.DragController, who string) error {
	p := tea.NewProgram(New(ctx, b, d, who), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case opDoneMsg:
		m.busy = false
		m.setToast(msg.note, msg.err)
		m.cur = m.fitCursor(m.cur)
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.adding:
			return m.updateAdding(msg)
		case m.drag.State() == planner.AwaitingConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBoard(msg)
		}
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.carry != nil {
			m.drag.Cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Left):
		return m.step(-1, 0), nil
	case key.Matches(msg, m.keys.Right):
		return m.step(1, 0), nil
	case key.Matches(msg, m.keys.Up):
		return m.step(0, -1), nil
	case key.Matches(msg, m.keys.Down):
		return m.step(0, 1), nil
	case key.Matches(msg, m.keys.Cancel):
		if m.carry != nil {
			// бросок мимо доски ничего не меняет
			_, _ = m.drag.End(m.ctx, planner.DropResult{DraggableID: m.carry.ID, Type: m.carry.Kind, Source: m.carry.Source})
			m.carry = nil
			m.toast = ""
		}
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Grab):
		if m.carry != nil {
			return m.drop()
		}
		return m.grab(), nil
	case key.Matches(msg, m.keys.Drop):
		if m.carry != nil {
			return m.drop()
		}
	case key.Matches(msg, m.keys.Trash):
		return m.trash(), nil
	case key.Matches(msg, m.keys.Add):
		if m.carry == nil {
			m.adding = true
			m.input.Reset()
			return m, m.input.Focus()
		}
	case key.Matches(msg, m.keys.Reload):
		if m.carry == nil {
			m.busy = true
			return m, m.run(func(ctx context.Context) (string, error) {
				return "Board reloaded", m.board.Reload(ctx)
			})
		}
	}
	return m, nil
}

func (m Model) step(dCol, dRow int) Model {
	cols := m.board.Columns()
	n := counts(cols, m.board.ItemsByColumn())
	if m.carry != nil {
		k := *m.carry
		k.Target = moveTarget(k, dCol, dRow, n)
		m.carry = &k
		return m
	}
	m.cur = moveCursor(m.cur, dCol, dRow, n)
	return m
}

func (m Model) grab() Model {
	k, ok := pickUp(m.board.Columns(), m.board.ItemsByColumn(), m.cur)
	if !ok {
		return m
	}
	if err := m.drag.Start(k.Kind); err != nil {
		m.setToast("", err)
		return m
	}
	m.carry = &k
	m.toast = fmt.Sprintf("Carrying %q, enter drops, x deletes, esc cancels", k.Name)
	m.toastErr = false
	return m
}

func (m Model) drop() (tea.Model, tea.Cmd) {
	k := *m.carry
	res := dropAt(k, m.board.Columns())
	m.carry = nil
	m.busy = true
	if k.Kind == planner.DragItem {
		m.cur = k.Target
	} else {
		m.cur = cursor{Col: k.Target.Col, Row: -1}
	}
	return m, m.run(func(ctx context.Context) (string, error) {
		out, err := m.drag.End(ctx, res)
		switch out {
		case planner.ColumnsReordered:
			return fmt.Sprintf("Moved column %q", k.Name), err
		case planner.ItemMoved:
			return fmt.Sprintf("Moved %q", k.Name), err
		default:
			return "", err
		}
	})
}

// trash бросает в корзину то, что в руке, или то, что под курсором.
// Сама корзина ничего не удаляет: дальше нужен y/n.
func (m Model) trash() Model {
	k := m.carry
	if k == nil {
		picked, ok := pickUp(m.board.Columns(), m.board.ItemsByColumn(), m.cur)
		if !ok {
			return m
		}
		if err := m.drag.Start(picked.Kind); err != nil {
			m.setToast("", err)
			return m
		}
		k = &picked
	}
	m.carry = nil
	if _, err := m.drag.End(m.ctx, dropOnTrash(*k)); err != nil {
		m.setToast("", err)
		return m
	}
	m.toast = ""
	return m
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Yes):
		pd, _ := m.drag.Pending()
		m.busy = true
		return m, m.run(func(ctx context.Context) (string, error) {
			return fmt.Sprintf("Deleted %q", pd.Name), m.drag.Confirm(ctx)
		})
	case key.Matches(msg, m.keys.No):
		m.drag.Cancel()
		m.setToast("Nothing deleted", nil)
	case key.Matches(msg, m.keys.Quit):
		m.drag.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		title := m.input.Value()
		m.adding = false
		m.input.Blur()
		m.busy = true
		return m, m.run(func(ctx context.Context) (string, error) {
			c, err := m.board.AddColumn(ctx, title)
			return fmt.Sprintf("Added column %q", c.Title), err
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// run выполняет операцию вне цикла отрисовки.
func (m Model) run(op func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		note, err := op(ctx)
		return opDoneMsg{note: note, err: err}
	}
}

func (m *Model) setToast(note string, err error) {
	if err != nil {
		m.toast = planner.UserMessage(err)
		m.toastErr = true
		return
	}
	m.toast = note
	m.toastErr = false
}

// fitCursor подрезает курсор после того, как доска изменилась.
func (m Model) fitCursor(c cursor) cursor {
	return moveCursor(c, 0, 0, counts(m.board.Columns(), m.board.ItemsByColumn()))
}
