package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasktracker/internal/task"
)

type field int

const (
	fieldTitle field = iota
	fieldPriority
	fieldDueDate
	fieldCategory
	fieldCount
)

func (f field) label() string {
	switch f {
	case fieldTitle:
		return "Title"
	case fieldPriority:
		return "Priority"
	case fieldDueDate:
		return "Due date"
	case fieldCategory:
		return "Category"
	}
	return ""
}

// form holds the add-task inputs. Priority and category are choices
// cycled with left/right; title and due date are free text.
type form struct {
	title textinput.Model
	due   textinput.Model

	priorities []task.Priority
	categories []task.Category
	priority   int
	category   int

	defaultPriority int
	defaultCategory int

	focused field
	err     string
}

func newForm(priority task.Priority, category task.Category, categories []task.Category) *form {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = 0
	title.Width = 40

	due := textinput.New()
	due.Placeholder = task.DateLayout
	due.CharLimit = len(task.DateLayout)
	due.Width = len(task.DateLayout) + 1

	f := &form{
		title:      title,
		due:        due,
		priorities: task.Priorities(),
		categories: categories,
	}
	f.defaultPriority = indexOf(f.priorities, priority)
	f.defaultCategory = indexOf(f.categories, category)
	if f.defaultCategory < 0 {
		f.categories = append(f.categories, category)
		f.defaultCategory = len(f.categories) - 1
	}
	if f.defaultPriority < 0 {
		f.defaultPriority = indexOf(f.priorities, task.DefaultPriority)
	}
	f.reset()
	return f
}

func indexOf[T comparable](list []T, v T) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}

// reset restores the defaults and focuses nothing.
func (f *form) reset() {
	f.title.Reset()
	f.due.Reset()
	f.priority = f.defaultPriority
	f.category = f.defaultCategory
	f.err = ""
	f.blur()
	f.focused = fieldTitle
}

func (f *form) blur() {
	f.title.Blur()
	f.due.Blur()
}

func (f *form) focus(target field) tea.Cmd {
	f.blur()
	f.focused = target
	switch target {
	case fieldTitle:
		return f.title.Focus()
	case fieldDueDate:
		return f.due.Focus()
	}
	return nil
}

// cycles reports whether the focused field is a choice list.
func (f *form) cycles() bool {
	return f.focused == fieldPriority || f.focused == fieldCategory
}

func (f *form) cycle(delta int) {
	switch f.focused {
	case fieldPriority:
		f.priority = wrap(f.priority+delta, len(f.priorities))
	case fieldCategory:
		f.category = wrap(f.category+delta, len(f.categories))
	}
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (f *form) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focused {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDueDate:
		f.due, cmd = f.due.Update(msg)
	}
	return cmd
}

func (f *form) selectedPriority() task.Priority {
	return f.priorities[f.priority]
}

func (f *form) selectedCategory() task.Category {
	return f.categories[f.category]
}

// input validates the form and builds the add request. The title is
// checked here so the message shows without a round trip.
func (f *form) input() (task.Input, error) {
	if strings.TrimSpace(f.title.Value()) == "" {
		return task.Input{}, &task.ValidationError{Field: "title", Err: task.ErrEmptyTitle}
	}
	due, err := task.ParseDate(f.due.Value())
	if err != nil {
		return task.Input{}, err
	}
	return task.Input{
		Title:    f.title.Value(),
		Priority: f.selectedPriority(),
		DueDate:  due,
		Category: f.selectedCategory(),
	}, nil
}
