package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasktracker/internal/task"
	"github.com/nibzard/tasktracker/internal/utils"
)

const (
	progressWidth = 40
	maxTitleWidth = 48
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statsStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle    = lipgloss.NewStyle().Width(10)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	formBoxStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	categoryColor = map[task.Category]lipgloss.Color{
		task.CategoryGeneral:  lipgloss.Color("39"),
		task.CategoryWork:     lipgloss.Color("214"),
		task.CategoryPersonal: lipgloss.Color("78"),
	}
	priorityColor = map[task.Priority]lipgloss.Color{
		task.PriorityHigh:   lipgloss.Color("196"),
		task.PriorityMedium: lipgloss.Color("220"),
		task.PriorityLow:    lipgloss.Color("245"),
	}
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Tracker"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString("Loading...\n")
		return b.String()
	}

	b.WriteString(m.viewStats())
	b.WriteString("\n\n")

	if m.mode == modeForm {
		b.WriteString(m.viewForm())
		b.WriteString("\n")
		b.WriteString(m.help.View(formKeys(m.keys)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.viewList())
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	m.help.ShowAll = m.showHelp
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewStats() string {
	st := m.store.Stats()
	bar := m.progress.ViewAs(st.Progress / 100)
	line := fmt.Sprintf("Total: %d  Completed: %d  Progress: %.0f%%", st.Total, st.Completed, st.Progress)
	return statsStyle.Render(line + "\n" + bar)
}

func (m *Model) viewList() string {
	if m.store.Len() == 0 {
		return dimStyle.Render("No tasks yet. Press a to add one.") + "\n"
	}

	var b strings.Builder
	for i, t := range m.store.Tasks() {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor)
		b.WriteString(formatTask(t))
		b.WriteString("\n")
	}
	return b.String()
}

func formatTask(t task.Task) string {
	check := "[ ]"
	title := utils.Truncate(t.Title, maxTitleWidth)
	if t.Completed {
		check = "[x]"
		title = doneStyle.Render(title)
	}

	parts := []string{
		check,
		title,
		lipgloss.NewStyle().Foreground(priorityColor[t.Priority]).Render(string(t.Priority)),
	}
	if t.HasDueDate() {
		parts = append(parts, dimStyle.Render("due "+t.DueDate.String()))
	}
	parts = append(parts, categoryStyle(t.Category).Render("#"+string(t.Category)))
	return strings.Join(parts, " ")
}

func categoryStyle(c task.Category) lipgloss.Style {
	color, ok := categoryColor[c]
	if !ok {
		color = lipgloss.Color("141")
	}
	return lipgloss.NewStyle().Foreground(color)
}

func (m *Model) viewForm() string {
	f := m.form
	var b strings.Builder
	b.WriteString(titleStyle.Render("New task"))
	b.WriteString("\n\n")

	for fld := fieldTitle; fld < fieldCount; fld++ {
		label := fld.label()
		if fld == f.focused {
			label = focusStyle.Render(label)
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(" ")
		switch fld {
		case fieldTitle:
			b.WriteString(f.title.View())
		case fieldPriority:
			b.WriteString(choice(string(f.selectedPriority()), fld == f.focused))
		case fieldDueDate:
			b.WriteString(f.due.View())
		case fieldCategory:
			b.WriteString(choice(string(f.selectedCategory()), fld == f.focused))
		}
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
	}
	return formBoxStyle.Render(b.String())
}

func choice(value string, focused bool) string {
	if focused {
		return focusStyle.Render("< " + value + " >")
	}
	return "  " + value
}

func doneLabel(done bool) string {
	if done {
		return "completed"
	}
	return "not completed"
}
