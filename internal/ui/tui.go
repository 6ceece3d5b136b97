// Package ui provides the terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker/internal/config"
	"github.com/nibzard/tasktracker/internal/controller"
	"github.com/nibzard/tasktracker/internal/task"
)

// Dispatcher applies commands to the shared task list.
// *controller.Controller satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd task.Command) (task.Store, error)
	Snapshot(ctx context.Context) (task.Store, error)
	Subscribe(buffer int) (<-chan controller.Update, func())
}

// RunTUI runs the terminal UI until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, cfg *config.Config, d Dispatcher, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	updates, unsubscribe := d.Subscribe(cfg.SubscriberBuffer)
	defer unsubscribe()

	model := NewModel(ctx, cfg, d, updates, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

// Model is the bubbletea model of the task list and add form.
type Model struct {
	ctx     context.Context
	d       Dispatcher
	updates <-chan controller.Update
	logger  *log.Logger

	store  task.Store
	seq    uint64
	loaded bool

	cursor   int
	mode     mode
	form     *form
	status   string
	err      string
	showHelp bool
	pending  task.Task

	keys     keyMap
	help     help.Model
	progress progress.Model
	width    int
}

type snapshotMsg struct {
	store task.Store
	err   error
}

type updateMsg controller.Update

type updatesClosedMsg struct{}

type dispatchedMsg struct {
	cmd   task.Command
	store task.Store
	err   error
}

// NewModel builds the UI model. updates should come from d.Subscribe and
// is read for the life of the program.
func NewModel(ctx context.Context, cfg *config.Config, d Dispatcher, updates <-chan controller.Update, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	priority, category := cfg.FormDefaults()
	return &Model{
		ctx:      ctx,
		d:        d,
		updates:  updates,
		logger:   logger,
		form:     newForm(priority, category, cfg.TaskCategories()),
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		status:   "Press a to add a task, ? for help.",
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadSnapshot(), waitForUpdate(m.updates))
}

func (m *Model) loadSnapshot() tea.Cmd {
	ctx, d := m.ctx, m.d
	return func() tea.Msg {
		s, err := d.Snapshot(ctx)
		return snapshotMsg{store: s, err: err}
	}
}

func waitForUpdate(ch <-chan controller.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return updateMsg(u)
	}
}

func (m *Model) dispatch(cmd task.Command) tea.Cmd {
	ctx, d, logger := m.ctx, m.d, m.logger
	logger.Debug("dispatch "+cmd.Name(), task.Fields(cmd)...)
	return func() tea.Msg {
		s, err := d.Dispatch(ctx, cmd)
		return dispatchedMsg{cmd: cmd, store: s, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case snapshotMsg:
		if msg.err != nil {
			m.logger.Error("load snapshot", "err", msg.err)
			m.err = msg.err.Error()
			return m, nil
		}
		if m.seq == 0 {
			m.setStore(msg.store)
		}
		m.loaded = true
		return m, nil
	case updateMsg:
		if msg.Seq > m.seq {
			m.seq = msg.Seq
			m.setStore(msg.Store)
		}
		m.loaded = true
		return m, waitForUpdate(m.updates)
	case updatesClosedMsg:
		m.logger.Debug("update stream closed")
		return m, tea.Quit
	case dispatchedMsg:
		return m.handleDispatched(msg)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) setStore(s task.Store) {
	m.store = s
	m.cursor = clampCursor(m.cursor, s.Len())
}

func (m *Model) handleDispatched(msg dispatchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("command failed", append(task.Fields(msg.cmd), "err", msg.err)...)
		if _, ok := msg.cmd.(task.Add); ok {
			m.form.err = formError(msg.err)
			return m, nil
		}
		m.err = msg.err.Error()
		return m, nil
	}

	m.err = ""
	switch c := msg.cmd.(type) {
	case task.Add:
		added := msg.store.At(msg.store.Len() - 1)
		m.form.reset()
		m.mode = modeList
		m.cursor = msg.store.Len() - 1
		m.status = fmt.Sprintf("Added %q", added.Title)
	case task.Toggle:
		if t, ok := msg.store.Get(c.ID); ok {
			m.status = fmt.Sprintf("%s: %s", t.Title, doneLabel(t.Completed))
		}
	case task.Delete:
		m.status = "Deleted task"
	case task.Move:
		m.cursor = c.To
		m.status = fmt.Sprintf("Moved task to position %d", c.To+1)
	}
	m.cursor = clampCursor(m.cursor, msg.store.Len())
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.store.Len()
	m.err = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Add):
		m.mode = modeForm
		m.status = ""
		return m, m.form.focus(fieldTitle)
	case key.Matches(msg, m.keys.MoveUp):
		if n > 0 && m.cursor > 0 {
			return m, m.dispatch(task.Move{From: m.cursor, To: m.cursor - 1})
		}
	case key.Matches(msg, m.keys.MoveDown):
		if n > 0 && m.cursor < n-1 {
			return m, m.dispatch(task.Move{From: m.cursor, To: m.cursor + 1})
		}
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, n)
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, n)
	case key.Matches(msg, m.keys.Toggle):
		if n > 0 {
			return m, m.dispatch(task.Toggle{ID: m.store.At(m.cursor).ID})
		}
	case key.Matches(msg, m.keys.Delete):
		if n > 0 {
			m.pending = m.store.At(m.cursor)
			m.mode = modeConfirmDelete
			m.status = fmt.Sprintf("Delete %q? y/n", m.pending.Title)
		}
	}
	return m, nil
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		return m, m.dispatch(task.Delete{ID: m.pending.ID})
	case "n", "N", "esc":
		m.mode = modeList
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		f.blur()
		m.status = "Add cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		in, err := f.input()
		if err != nil {
			f.err = formError(err)
			return m, nil
		}
		f.err = ""
		return m, m.dispatch(task.Add{Input: in})
	case key.Matches(msg, m.keys.NextField):
		return m, f.focus((f.focused + 1) % fieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.focus((f.focused + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.Left) && f.cycles():
		f.cycle(-1)
		return m, nil
	case key.Matches(msg, m.keys.Right) && f.cycles():
		f.cycle(1)
		return m, nil
	}
	return m, f.updateInput(msg)
}

// formError turns an add failure into the message shown under the form.
func formError(err error) string {
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		return "Please enter a task title"
	case errors.Is(err, task.ErrInvalidDate):
		return "Due date must be YYYY-MM-DD"
	default:
		return err.Error()
	}
}

func clampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
