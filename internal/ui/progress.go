package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StepStatus is the state of one progress step.
type StepStatus int

const (
	StepWaiting StepStatus = iota
	StepRunning
	StepDone
	StepFailed
)

// Step is one line of the progress view.
type Step struct {
	Label  string
	Status StepStatus
	Detail string // tx hash or error text
}

// StepMsg updates step Index.
type StepMsg struct {
	Index  int
	Status StepStatus
	Detail string
}

// ProgressDoneMsg ends the progress view. Err is the work function's error.
type ProgressDoneMsg struct{ Err error }

type progressTickMsg struct{}

func progressTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// ProgressModel is the Bubble Tea model that tracks the approve and disperse
// transactions while they are mined.
type ProgressModel struct {
	Title    string
	Steps    []Step
	Frame    int
	Err      error
	Finished bool
	Aborted  bool
}

// NewProgress creates a model with one waiting step per label.
func NewProgress(title string, labels []string) ProgressModel {
	steps := make([]Step, len(labels))
	for i, l := range labels {
		steps[i] = Step{Label: l}
	}
	return ProgressModel{Title: title, Steps: steps}
}

func (m ProgressModel) Init() tea.Cmd { return progressTick() }

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Aborted = true
			return m, tea.Quit
		}

	case progressTickMsg:
		m.Frame = (m.Frame + 1) % len(spinnerFrames)
		return m, progressTick()

	case StepMsg:
		if msg.Index >= 0 && msg.Index < len(m.Steps) {
			m.Steps[msg.Index].Status = msg.Status
			m.Steps[msg.Index].Detail = msg.Detail
		}

	case ProgressDoneMsg:
		m.Err = msg.Err
		m.Finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(m.Title) + "\n")

	spin := StyleChain.Render(spinnerFrames[m.Frame])
	for _, s := range m.Steps {
		var icon string
		switch s.Status {
		case StepRunning:
			icon = spin
		case StepDone:
			icon = StyleSuccess.Render("✓")
		case StepFailed:
			icon = StyleError.Render("✗")
		default:
			icon = StyleMeta.Render("·")
		}

		line := "  " + icon + "  " + padR(s.Label, 22)
		if s.Detail != "" {
			if s.Status == StepFailed {
				line += StyleError.Render(s.Detail)
			} else {
				line += StyleAddress.Render(s.Detail)
			}
		}
		sb.WriteString(line + "\n")
	}

	if m.Aborted {
		sb.WriteString("\n" + Warn("stopped watching; submitted transactions may still be mined") + "\n")
	}
	return sb.String()
}

// RunProgress shows the progress view while work runs. work reports through
// update, which is safe to call from any goroutine.
func RunProgress(title string, labels []string, work func(update func(StepMsg)) error) error {
	p := tea.NewProgram(NewProgress(title, labels))

	go func() {
		err := work(func(msg StepMsg) { p.Send(msg) })
		p.Send(ProgressDoneMsg{Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	fm := final.(ProgressModel)
	if fm.Aborted {
		return fmt.Errorf("interrupted")
	}
	return fm.Err
}
