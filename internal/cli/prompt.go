package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/flowcli/internal/registry"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

type contextItem struct {
	label   string
	checked bool
}

func (i contextItem) FilterValue() string { return i.label }

func (i contextItem) Title() string {
	if i.checked {
		return "[x] " + i.label
	}
	return "[ ] " + i.label
}

func (i contextItem) Description() string { return "" }

type contextPickerModel struct {
	list     list.Model
	chosen   []string // labels in toggle order
	custom   bool     // user asked to type their own label
	quitting bool
	aborted  bool
}

func (m contextPickerModel) Init() tea.Cmd {
	return nil
}

func (m contextPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			m.quitting = true
			return m, tea.Quit

		case " ":
			idx := m.list.Index()
			if item, ok := m.list.SelectedItem().(contextItem); ok {
				item.checked = !item.checked
				cmd := m.list.SetItem(idx, item)
				if item.checked {
					m.chosen = append(m.chosen, item.label)
				} else {
					m.chosen = removeLabel(m.chosen, item.label)
				}
				return m, cmd
			}
			return m, nil

		case "enter":
			// Enter with no toggles selects the highlighted entry alone
			if len(m.chosen) == 0 {
				if item, ok := m.list.SelectedItem().(contextItem); ok {
					m.chosen = []string{item.label}
				}
			}
			m.quitting = true
			return m, tea.Quit

		case "c", "C":
			// Custom input mode
			m.custom = true
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m contextPickerModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("↑/↓: navigate • space: toggle • enter: confirm • c: custom context • q/ctrl+c: cancel")
	return fmt.Sprintf("%s\n\n%s", m.list.View(), help)
}

// PromptForContexts shows an interactive picker over the context registry.
// Space toggles entries, enter confirms; returns the labels in toggle order.
func PromptForContexts(reg *registry.Registry) ([]string, error) {
	labels := reg.Labels()
	items := make([]list.Item, 0, len(labels))
	for _, label := range labels {
		items = append(items, contextItem{label: label})
	}

	const defaultWidth = 60
	const listHeight = 12

	l := list.New(items, contextDelegate{}, defaultWidth, listHeight)
	l.Title = "Select contexts to send with the flow"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	m := contextPickerModel{list: l}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running context picker: %w", err)
	}

	result := finalModel.(contextPickerModel)
	if result.aborted {
		return nil, fmt.Errorf("selection cancelled")
	}

	chosen := result.chosen
	if result.custom {
		label, err := promptForCustomContext()
		if err != nil {
			return nil, err
		}
		reg.Add(label)
		if !containsLabel(chosen, label) {
			chosen = append(chosen, label)
		}
	}

	if len(chosen) == 0 {
		return nil, fmt.Errorf("no context selected")
	}
	return chosen, nil
}

// contextDelegate is a custom list item delegate
type contextDelegate struct{}

func (d contextDelegate) Height() int                             { return 1 }
func (d contextDelegate) Spacing() int                            { return 0 }
func (d contextDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d contextDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(contextItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, item.Title())

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// promptForCustomContext reads a custom context label from stdin
func promptForCustomContext() (string, error) {
	fmt.Fprint(os.Stderr, "\nEnter custom context: ")
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("context cannot be empty")
	}
	return value, nil
}

func removeLabel(labels []string, label string) []string {
	out := make([]string, 0, len(labels))
	key := registry.Normalize(label)
	for _, l := range labels {
		if registry.Normalize(l) == key {
			continue
		}
		out = append(out, l)
	}
	return out
}

func containsLabel(labels []string, label string) bool {
	key := registry.Normalize(label)
	for _, l := range labels {
		if registry.Normalize(l) == key {
			return true
		}
	}
	return false
}
