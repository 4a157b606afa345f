// Package console is the terminal front end: it shows the conversion model,
// applies edits through the model's named transitions and turns the hotkey
// into replay triggers.
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/offlinefirst/sensmatch/pkg/presets"
	"github.com/offlinefirst/sensmatch/pkg/replay"
	"github.com/offlinefirst/sensmatch/pkg/sensitivity"
)

// TriggerMsg asks the UI to start a replay, e.g. from a signal source.
type TriggerMsg struct {
	Source string
}

// ResultMsg reports a finished replay.
type ResultMsg struct {
	Result replay.Result
	Err    error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

type field string

const (
	fieldNone        field = ""
	fieldSensitivity field = "sensitivity"
	fieldYaw         field = "yaw"
	fieldCPI         field = "cpi"
)

// Options configure the console model.
type Options struct {
	Model   *sensitivity.Model
	Presets *presets.Table
	Hotkey  string
	// Dispatch starts a replay of the snapshot without blocking.
	Dispatch func(sensitivity.Snapshot) error
	// Cancel stops a running replay and reports whether one was running.
	Cancel func() bool
}

// Model is the bubbletea model. The conversion model is only touched from Update.
type Model struct {
	conv     *sensitivity.Model
	presets  *presets.Table
	preset   string
	hotkey   string
	dispatch func(sensitivity.Snapshot) error
	cancel   func() bool

	editing field
	input   string
	running bool
	status  string
	last    string
}

// New builds the console model.
func New(opts Options) Model {
	conv := opts.Model
	if conv == nil {
		conv = sensitivity.New()
	}
	table := opts.Presets
	if table == nil {
		table = presets.Builtin()
	}
	hotkey := opts.Hotkey
	if hotkey == "" {
		hotkey = "."
	}
	return Model{
		conv:     conv,
		presets:  table,
		preset:   table.NameFor(conv.YawPerCount),
		hotkey:   hotkey,
		dispatch: opts.Dispatch,
		cancel:   opts.Cancel,
		status:   "ready",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing != fieldNone {
			return m.updateEditing(msg), nil
		}
		return m.updateKeys(msg)
	case TriggerMsg:
		return m.fire(msg.Source), nil
	case ResultMsg:
		m.running = false
		m.last = describeResult(msg.Result, msg.Err)
		m.status = "ready"
		return m, nil
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == m.hotkey {
		return m.fire("hotkey"), nil
	}
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		next := m.presets.Next(m.preset)
		if _, err := m.conv.SelectPreset(next.Yaw); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.preset = next.Name
		m.status = "preset " + next.Name + " (increment held)"
	case "s":
		m.beginEdit(fieldSensitivity, m.conv.Sensitivity)
	case "y":
		m.beginEdit(fieldYaw, m.conv.YawPerCount)
	case "c":
		m.editing = fieldCPI
		m.input = strconv.Itoa(m.conv.CPI)
	case "x":
		if m.cancel != nil && m.cancel() {
			m.status = "cancelling replay"
		}
	}
	return m, nil
}

func (m *Model) beginEdit(f field, current float64) {
	m.editing = f
	m.input = formatG(current)
}

func (m Model) updateEditing(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = fieldNone
		m.input = ""
		m.status = "edit cancelled"
	case tea.KeyEnter:
		m.status = m.commit()
		m.editing = fieldNone
		m.input = ""
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m
}

func (m *Model) commit() string {
	text := strings.TrimSpace(m.input)
	if text == "" {
		return "empty value ignored"
	}
	var err error
	switch m.editing {
	case fieldSensitivity:
		var v float64
		if v, err = strconv.ParseFloat(text, 64); err == nil {
			_, err = m.conv.SetSensitivity(v)
		}
	case fieldYaw:
		var v float64
		if v, err = strconv.ParseFloat(text, 64); err == nil {
			_, err = m.conv.SetYawPerCount(v)
		}
		m.preset = m.presets.NameFor(m.conv.YawPerCount)
	case fieldCPI:
		var v int
		if v, err = strconv.Atoi(text); err == nil {
			_, err = m.conv.SetCPI(v)
		}
	}
	if err != nil {
		return fmt.Sprintf("invalid %s: %v", m.editing, err)
	}
	return string(m.editing) + " updated"
}

func (m Model) fire(source string) Model {
	if m.dispatch == nil {
		m.status = "replay unavailable"
		return m
	}
	err := m.dispatch(m.conv.Snapshot())
	switch {
	case err == nil:
		m.running = true
		m.status = "spinning (" + source + ")"
	case errors.Is(err, replay.ErrBusy):
		m.status = "replay in progress; trigger dropped"
	default:
		m.status = err.Error()
	}
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	snap := m.conv.Snapshot()

	b.WriteString(titleStyle.Render("sensmatch") + "\n\n")
	fmt.Fprintf(&b, "%s %s\n", label("Preset:"), m.preset)
	fmt.Fprintf(&b, "%s %s x %s = %s deg/count\n", label("Game:"), m.render(fieldSensitivity, snap.Sensitivity), m.render(fieldYaw, snap.YawPerCount), formatG(snap.IncrementDegrees))
	fmt.Fprintf(&b, "%s counts %s  move %s  freq %s Hz\n", label("Spin:"), formatG(snap.CountsPer360), formatG(snap.MoveStep), formatG(snap.EventFrequencyHz))
	cpi := strconv.Itoa(snap.CPI)
	if m.editing == fieldCPI {
		cpi = "[" + m.input + "_]"
	}
	fmt.Fprintf(&b, "%s %s CPI  %s cm/360\n\n", label("Physical:"), cpi, formatG(snap.PhysicalDistanceCm))

	fmt.Fprintf(&b, "%s %s\n", label("Status:"), m.status)
	if m.last != "" {
		fmt.Fprintf(&b, "%s %s\n", label("Last:"), m.last)
	}
	b.WriteString("\n" + helpStyle.Render(m.hotkey+" spin  tab preset  s/y/c edit  x cancel  q quit") + "\n")
	return b.String()
}

// Running reports whether the UI believes a replay is in flight.
func (m Model) Running() bool {
	return m.running
}

// Status returns the status line.
func (m Model) Status() string {
	return m.status
}

// Preset returns the displayed preset name.
func (m Model) Preset() string {
	return m.preset
}

func (m Model) render(f field, v float64) string {
	if m.editing == f {
		return "[" + m.input + "_]"
	}
	return formatG(v)
}

func label(s string) string {
	return labelStyle.Width(10).Render(s)
}

func describeResult(res replay.Result, err error) string {
	if err != nil {
		return fmt.Sprintf("%s after %d events: %v", res.State, res.Events, err)
	}
	return fmt.Sprintf("%s: %d events, %d counts in %s", res.State, res.Events, res.TotalDelta, res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
}

func formatG(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
