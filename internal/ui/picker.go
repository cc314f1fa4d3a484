package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one entry shown in the interactive picker.
type PickerItem struct {
	Label    string // wallet name, asset symbol
	SubLabel string // address, shown dimmed
	Value    string // returned on selection
	Current  bool   // marks the active choice and places the cursor on it
	// Disabled items are listed with Reason but cannot be selected,
	// e.g. a watch-only wallet when a signer is needed.
	Disabled bool
	Reason   string
}

type pickerModel struct {
	title    string
	items    []PickerItem
	cursor   int
	selected *PickerItem
	quitting bool
}

func newPickerModel(title string, items []PickerItem) pickerModel {
	m := pickerModel{title: title, items: items, cursor: -1}
	for i, it := range items {
		if it.Current && !it.Disabled {
			m.cursor = i
			break
		}
	}
	if m.cursor < 0 {
		m.cursor = m.step(-1, 1)
	}
	return m
}

// step returns the next selectable index from i in direction dir, or i when
// there is none.
func (m pickerModel) step(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.items); j += dir {
		if !m.items[j].Disabled {
			return j
		}
	}
	return i
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k := key.String(); k {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.cursor = m.step(m.cursor, -1)
	case "down", "j":
		m.cursor = m.step(m.cursor, 1)
	case "enter", " ":
		return m.choose(m.cursor)
	default:
		// 1-9 pick the numbered entry directly.
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= 9 {
			return m.choose(n - 1)
		}
	}
	return m, nil
}

func (m pickerModel) choose(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.items) || m.items[i].Disabled {
		return m, nil
	}
	item := m.items[i]
	m.cursor = i
	m.selected = &item
	return m, tea.Quit
}

func (m pickerModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(StyleTitle.Render("  "+m.title) + "\n\n")

	for i, item := range m.items {
		prefix := "    "
		if i == m.cursor {
			prefix = "  ▸ "
		}
		num := "   "
		if i < 9 {
			num = fmt.Sprintf("%d. ", i+1)
		}

		if item.Disabled {
			line := prefix + num + item.Label
			if item.Reason != "" {
				line += "  (" + item.Reason + ")"
			}
			sb.WriteString(StyleMeta.Render(line) + "\n")
			continue
		}

		line := prefix + StyleMeta.Render(num) + StyleValue.Render(item.Label)
		if item.SubLabel != "" {
			line += "  " + StyleMeta.Render(item.SubLabel)
		}
		if item.Current {
			line += "  " + StyleSuccess.Render("(current)")
		}
		if i == m.cursor {
			sb.WriteString(StyleSelected.Render(line) + "\n")
		} else {
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(StyleMeta.Render("  [ ↑↓ / jk ] navigate   [ 1-9 / Enter ] select   [ q ] cancel") + "\n")
	return sb.String()
}

// PickItem runs the picker and returns the selected item's Value, or ("", nil)
// if the user cancels.
func PickItem(title string, items []PickerItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items to pick from")
	}
	if !hasSelectable(items) {
		return "", fmt.Errorf("%s: nothing selectable", strings.ToLower(title))
	}

	final, err := tea.NewProgram(newPickerModel(title, items)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}

	fm := final.(pickerModel)
	if fm.quitting || fm.selected == nil {
		return "", nil
	}
	return fm.selected.Value, nil
}

func hasSelectable(items []PickerItem) bool {
	for _, it := range items {
		if !it.Disabled {
			return true
		}
	}
	return false
}
