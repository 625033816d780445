// internal/tui/app.go
//
// The interactive shell for the fee tracker. It follows The Elm
// Architecture via bubbletea: the App model holds all state, Update
// reacts to messages, View renders the current screen.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"

	"github.com/smkpu/yuran-asrama/internal/config"
	"github.com/smkpu/yuran-asrama/internal/logbook"
	"github.com/smkpu/yuran-asrama/internal/receipt"
	"github.com/smkpu/yuran-asrama/internal/roster"
)

// appState represents which screen we're on.
type appState int

const (
	stateMenu        appState = iota // main menu
	stateStudents                    // roster list with add/edit/delete
	stateStudentForm                 // add or edit one student
	stateReceipts                    // category, selection and export actions
	stateSettings                    // settings form
)

// App is the main application model.
type App struct {
	state    appState
	config   *config.Config
	store    *roster.Store
	renderer *receipt.Renderer
	logbook  *logbook.Logbook
	validate *validator.Validate

	students []roster.Record

	mainMenu    list.Model
	studentList list.Model
	form        *studentForm
	settings    *settingsForm
	receipts    *receiptView

	statusMsg string
	width     int
	height    int
}

// AppOption customizes App construction for tests.
type AppOption func(*App)

// WithRenderer overrides the receipt renderer, letting tests pin the clock.
func WithRenderer(r *receipt.Renderer) AppOption {
	return func(a *App) {
		if r != nil {
			a.renderer = r
		}
	}
}

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// studentItem implements list.Item for the roster list.
type studentItem struct {
	index  int
	record roster.Record
	labels config.Labels
}

func (i studentItem) Title() string {
	name := i.record.Name
	if name == "" {
		name = "(tanpa nama)"
	}
	return name
}

func (i studentItem) Description() string {
	return fmt.Sprintf("%s · %s / %s · %s: %s · %s: %s",
		i.record.IDNumber, i.record.Grade, i.record.Class,
		i.labels.Mengaji, i.record.Mengaji.Status,
		i.labels.Silat, i.record.Silat.Status,
	)
}

func (i studentItem) FilterValue() string {
	return i.record.Name + " " + i.record.IDNumber
}

// NewApp loads config and roster and builds the shell.
func NewApp(dataDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(dataDir)
	if err != nil {
		return nil, err
	}
	store := roster.NewStore(cfg.RosterPath())
	students, err := store.Load()
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.LogsDir())
	if err != nil {
		return nil, err
	}

	mainMenu := list.New(buildMainMenu(), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "⬡ SISTEM YURAN"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	studentList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	studentList.Title = "Senarai Pelajar"
	studentList.SetShowStatusBar(false)

	app := &App{
		state:       stateMenu,
		config:      cfg,
		store:       store,
		renderer:    receipt.New(),
		logbook:     lb,
		validate:    validator.New(),
		students:    students,
		mainMenu:    mainMenu,
		studentList: studentList,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.refreshStudentList()
	lb.Info("Sesi dibuka · %d pelajar", len(students))
	return app, nil
}

func buildMainMenu() []list.Item {
	return []list.Item{
		menuItem{title: "Senarai Pelajar", desc: "Tambah, sunting dan padam rekod pelajar"},
		menuItem{title: "Jana Resit", desc: "Resit individu, bulk PDF atau ZIP"},
		menuItem{title: "Eksport CSV", desc: "Salin data semasa ke fail CSV"},
		menuItem{title: "Tetapan", desc: "Teks resit, mata wang dan label yuran"},
		menuItem{title: "Keluar", desc: "Tutup aplikasi"},
	}
}

func (a *App) refreshStudentList() {
	items := make([]list.Item, len(a.students))
	for i, rec := range a.students {
		items[i] = studentItem{index: i, record: rec, labels: a.config.Settings.Labels}
	}
	a.studentList.SetItems(items)
}

// saveStudents persists the roster and reports the outcome in the footer.
func (a *App) saveStudents() bool {
	if err := a.store.Save(a.students); err != nil {
		a.statusMsg = fmt.Sprintf("Gagal menyimpan: %v", err)
		a.logbook.Error("Roster save failed: %v", err)
		return false
	}
	a.refreshStudentList()
	return true
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		a.studentList.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	switch a.state {
	case stateMenu:
		return a.updateMenu(msg)
	case stateStudents:
		return a.updateStudents(msg)
	case stateStudentForm:
		return a.updateStudentForm(msg)
	case stateReceipts:
		return a.updateReceipts(msg)
	case stateSettings:
		return a.updateSettings(msg)
	}
	return a, nil
}

func (a *App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			return a, tea.Quit
		case "enter":
			return a.handleMenuSelection()
		}
	}
	var cmd tea.Cmd
	a.mainMenu, cmd = a.mainMenu.Update(msg)
	return a, cmd
}

func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "Senarai Pelajar":
		a.state = stateStudents
		a.statusMsg = "a tambah · enter sunting · d padam · m/s tukar status yuran · esc kembali"
	case "Jana Resit":
		if len(a.students) == 0 {
			a.statusMsg = "Tiada data. Tambah pelajar dahulu."
			return a, nil
		}
		a.receipts = newReceiptView(a.students)
		a.state = stateReceipts
		a.statusMsg = "space pilih · tab jenis yuran · enter individu · b bulk · z zip"
	case "Eksport CSV":
		name := fmt.Sprintf("students_export_%s.csv", time.Now().Format("20060102"))
		path := filepath.Join(a.config.DataDir, name)
		if err := a.store.Export(path); err != nil {
			a.statusMsg = fmt.Sprintf("Gagal mengeksport: %v", err)
			a.logbook.Error("CSV export failed: %v", err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Data disalin ke %s", name)
		a.logbook.Info("CSV dieksport · %s", name)
	case "Tetapan":
		a.settings = newSettingsForm(a.config.Settings)
		a.state = stateSettings
		a.statusMsg = "tab medan seterusnya · enter simpan · esc batal"
	case "Keluar":
		a.logbook.Info("Sesi ditutup")
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) updateStudents(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !a.studentList.SettingFilter() {
		switch key.String() {
		case "esc":
			a.state = stateMenu
			a.statusMsg = ""
			return a, nil
		case "a":
			a.form = newStudentForm(-1, roster.Record{})
			a.state = stateStudentForm
			a.statusMsg = "Isi maklumat pelajar · enter simpan · esc batal"
			return a, nil
		case "enter":
			if item, ok := a.studentList.SelectedItem().(studentItem); ok {
				a.form = newStudentForm(item.index, item.record)
				a.state = stateStudentForm
				a.statusMsg = "Sunting maklumat · enter simpan · esc batal"
			}
			return a, nil
		case "d":
			if item, ok := a.studentList.SelectedItem().(studentItem); ok {
				a.students = append(a.students[:item.index], a.students[item.index+1:]...)
				if a.saveStudents() {
					a.statusMsg = "1 rekod dipadam."
					a.logbook.Info("Pelajar dipadam · %s", item.record.Name)
				}
			}
			return a, nil
		case "m":
			a.toggleFeeStatus(roster.Mengaji)
			return a, nil
		case "s":
			a.toggleFeeStatus(roster.Silat)
			return a, nil
		}
	}
	var cmd tea.Cmd
	a.studentList, cmd = a.studentList.Update(msg)
	return a, cmd
}

// toggleFeeStatus flips one fee between paid and unpaid on the selected
// student. Marking paid stamps today's date; marking unpaid clears it.
// The other fee category is never touched.
func (a *App) toggleFeeStatus(c roster.Category) {
	item, ok := a.studentList.SelectedItem().(studentItem)
	if !ok {
		return
	}
	fee := a.students[item.index].Fee(c)
	if fee.Paid() {
		fee.Status = roster.StatusUnpaid
		fee.PaidDate = ""
	} else {
		fee.Status = roster.StatusPaid
		fee.PaidDate = time.Now().Format("2006-01-02")
	}
	if a.saveStudents() {
		a.statusMsg = fmt.Sprintf("%s · %s", item.record.Name, fee.Status)
		a.logbook.Info("Status yuran · %s · %s · %s", item.record.Name, c.Key(), fee.Status)
	}
}

func (a *App) updateStudentForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			a.form = nil
			a.state = stateStudents
			a.statusMsg = ""
			return a, nil
		case "enter":
			return a.submitStudentForm()
		}
	}
	if a.form != nil {
		return a, a.form.Update(msg)
	}
	return a, nil
}

func (a *App) submitStudentForm() (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	rec, err := a.form.Record(a.validate)
	if err != nil {
		a.statusMsg = err.Error()
		return a, nil
	}
	if a.form.editIndex >= 0 && a.form.editIndex < len(a.students) {
		// Keep the existing payment status and dates on edit.
		existing := a.students[a.form.editIndex]
		rec.Mengaji.Status = existing.Mengaji.Status
		rec.Mengaji.PaidDate = existing.Mengaji.PaidDate
		rec.Silat.Status = existing.Silat.Status
		rec.Silat.PaidDate = existing.Silat.PaidDate
		a.students[a.form.editIndex] = rec
	} else {
		a.students = append(a.students, rec)
	}
	if a.saveStudents() {
		if a.form.editIndex >= 0 {
			a.statusMsg = "Disimpan."
		} else {
			a.statusMsg = "Pelajar ditambah."
		}
		a.logbook.Info("Roster disimpan · %d pelajar", len(a.students))
	}
	a.form = nil
	a.state = stateStudents
	return a, nil
}

func (a *App) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			a.settings = nil
			a.state = stateMenu
			a.statusMsg = ""
			return a, nil
		case "enter":
			if a.settings == nil {
				return a, nil
			}
			if err := a.config.SaveSettings(a.settings.Settings()); err != nil {
				a.statusMsg = fmt.Sprintf("Gagal menyimpan tetapan: %v", err)
				a.logbook.Error("Settings save failed: %v", err)
				return a, nil
			}
			a.settings = nil
			a.state = stateMenu
			a.statusMsg = "Tetapan disimpan."
			a.logbook.Info("Tetapan disimpan")
			a.refreshStudentList()
			return a, nil
		}
	}
	if a.settings != nil {
		return a, a.settings.Update(msg)
	}
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ " + a.config.Settings.AppTitle)

	var content string
	switch a.state {
	case stateMenu:
		content = a.mainMenu.View()
	case stateStudents:
		content = a.studentList.View()
	case stateStudentForm:
		if a.form != nil {
			content = a.form.View()
		}
	case stateReceipts:
		if a.receipts != nil {
			content = a.receipts.View(a.config.Settings, width-6)
		}
	case stateSettings:
		if a.settings != nil {
			content = a.settings.View()
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width-2)).
		Render(content)

	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	lines := a.logbook.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("LOG")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(head + "\n" + body)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
