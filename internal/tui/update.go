package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tracker"
	"github.com/julianstephens/quitline/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeBars()
		return m, nil

	case tickMsg:
		m.refresh(msg.now)
		return m, m.announce()

	case saveMsg:
		m.persist()
		return m, nil

	case reloadMsg:
		// a reload mid-form would discard what the form is editing
		if m.state != constants.StateDashboard {
			m.pendingReload = true
			return m, nil
		}
		m.reload()
		return m, nil

	case shareMsg:
		if msg.err != nil {
			logger.Warn("Failed to copy share text", "error", msg.err)
			m.notify(fmt.Sprintf("Copy failed: %v", msg.err), tracker.SeverityError)
		} else {
			m.notify("Share text copied to clipboard", tracker.SeveritySuccess)
		}
		return m, nil
	}

	switch m.state {
	case constants.StateRecordCraving:
		return m, m.updateForm(msg, m.submitCraving)
	case constants.StateSetQuitDate:
		return m, m.updateForm(msg, m.submitQuitDate)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Craving):
		m.cravingForm = &CravingFormModel{Intensity: tracker.DefaultIntensity}
		m.form = NewCravingForm(m.cravingForm)
		m.state = constants.StateRecordCraving
		return m, m.form.Init()

	case key.Matches(msg, m.keys.QuitDate):
		today := utils.FormatDate(m.clock.Now(), m.tracker.Location())
		date := m.tracker.QuitDate()
		if date == "" {
			date = today
		}
		m.dateForm = &QuitDateFormModel{Date: date}
		m.form = NewQuitDateForm(m.dateForm, today)
		m.state = constants.StateSetQuitDate
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Share):
		if !m.snap.Started {
			m.notify("Set a quit date before sharing", tracker.SeverityError)
			return m, nil
		}
		return m, copyText(m.clipboard, tracker.ShareText(m.snap))

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	}
	return m, nil
}

// updateForm forwards msg to the open form and runs submit once it
// completes. Esc cancels.
func (m *Model) updateForm(msg tea.Msg, submit func()) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit()
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.cravingForm = nil
	m.dateForm = nil
	m.state = constants.StateDashboard
	if m.pendingReload {
		m.pendingReload = false
		m.reload()
	}
}

// submitCraving records the form's craving and saves straight away.
func (m *Model) submitCraving() {
	fm := m.cravingForm
	if fm == nil {
		return
	}
	if _, err := m.tracker.RecordCraving(fm.Intensity, fm.CopingMethod(), strings.TrimSpace(fm.Note)); err != nil {
		return
	}
	m.dirty = true
	m.save()
	m.refresh(m.clock.Now())
}

func (m *Model) submitQuitDate() {
	fm := m.dateForm
	if fm == nil {
		return
	}
	if err := m.tracker.SetQuitDate(strings.TrimSpace(fm.Date)); err != nil {
		return
	}
	m.dirty = true
	m.save()
	m.refresh(m.clock.Now())
}

// toggleTheme switches theme and stores the choice.
func (m *Model) toggleTheme() {
	m.setTheme(nextTheme(m.theme))

	settings, err := storage.GetSettings(m.store)
	if err == nil {
		settings.Theme = m.theme
		err = storage.SaveSettings(m.store, settings)
	}
	if err != nil {
		logger.Warn("Failed to save theme", "error", err)
		m.notify(fmt.Sprintf("Theme not saved: %v", err), tracker.SeverityError)
		return
	}
	m.notify(fmt.Sprintf("Theme set to %s", m.theme), tracker.SeveritySuccess)
}

// announce diffs the current snapshot on the update loop, so ticks are seen
// in order, and sends any new milestones off it, since sending can wait on
// the network.
func (m *Model) announce() tea.Cmd {
	if m.announcer == nil {
		return nil
	}
	reached := m.announcer.Diff(m.snap)
	if len(reached) == 0 {
		return nil
	}
	a := m.announcer
	return func() tea.Msg {
		a.Announce(reached)
		return nil
	}
}

func copyText(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return shareMsg{err: write(text)}
	}
}
