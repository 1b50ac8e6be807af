package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// ProgressModel - Generation run progress bar
// =============================================================================

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 40

// progressMsg updates the completed count.
type progressMsg struct {
	done  int
	total int
}

// progressDoneMsg ends the program.
type progressDoneMsg struct{}

// ProgressModel is the bubbletea model for a generation run.
type ProgressModel struct {
	Title string
	Done  int
	Total int
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.Done = msg.done
		m.Total = msg.total
	case progressDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.Total == 0 {
		return ""
	}

	ratio := float64(m.Done) / float64(m.Total)
	filled := int(ratio * barWidth)
	if filled > barWidth {
		filled = barWidth
	}

	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%s %s %s\n",
		StyleDim.Render(m.Title),
		bar,
		StyleNumber.Render(fmt.Sprintf("%d/%d", m.Done, m.Total)))
}

// =============================================================================
// progressUI - Wiring between the pipeline and the bubbletea program
// =============================================================================

// progressUI runs a ProgressModel in the background and feeds it from
// pipeline progress callbacks. Update is safe to call from any goroutine.
type progressUI struct {
	prog    *tea.Program
	stopped chan struct{}
	once    sync.Once
}

func newProgressUI(title string) *progressUI {
	return &progressUI{
		prog: tea.NewProgram(ProgressModel{Title: title},
			tea.WithOutput(os.Stderr),
			tea.WithoutSignalHandler()),
		stopped: make(chan struct{}),
	}
}

// Start runs the program in the background. Render failures (e.g. no
// terminal) only lose the bar, never the run.
func (u *progressUI) Start() {
	go func() {
		defer close(u.stopped)
		_, _ = u.prog.Run()
	}()
}

// Update reports run progress.
func (u *progressUI) Update(done, total int) {
	u.prog.Send(progressMsg{done: done, total: total})
}

// Stop ends the program and waits for the terminal to be restored.
func (u *progressUI) Stop() {
	u.once.Do(func() {
		u.prog.Send(progressDoneMsg{})
		<-u.stopped
	})
}
