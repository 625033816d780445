package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"

	"github.com/smkpu/yuran-asrama/internal/config"
	"github.com/smkpu/yuran-asrama/internal/roster"
)

var (
	formTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	formLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Width(24)
)

// studentInput carries the form values through validation. Amount fields
// are free text and coerced, so only identity fields are validated.
type studentInput struct {
	Name     string `validate:"required"`
	IDNumber string `validate:"required"`
}

// studentForm edits one student. editIndex is -1 when adding.
type studentForm struct {
	inputs    []textinput.Model
	labels    []string
	focus     int
	editIndex int
}

const (
	fieldName = iota
	fieldID
	fieldGrade
	fieldClass
	fieldMengajiAmount
	fieldSilatAmount
	fieldCount
)

func newStudentForm(editIndex int, rec roster.Record) *studentForm {
	f := &studentForm{
		labels:    []string{"Nama", "No. KP", "Tingkatan", "Kelas", "Amaun Yuran Mengaji", "Amaun Yuran Silat"},
		editIndex: editIndex,
	}
	values := []string{rec.Name, rec.IDNumber, rec.Grade, rec.Class, "", ""}
	if editIndex >= 0 {
		values[fieldMengajiAmount] = rec.Mengaji.Amount.StringFixed(2)
		values[fieldSilatAmount] = rec.Silat.Amount.StringFixed(2)
	}
	for i := 0; i < fieldCount; i++ {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 40
		ti.SetValue(values[i])
		f.inputs = append(f.inputs, ti)
	}
	f.inputs[fieldName].Focus()
	return f
}

// Update moves focus with tab/up/down and forwards everything else to the
// focused input.
func (f *studentForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *studentForm) setFocus(next int) {
	f.inputs[f.focus].Blur()
	if next < 0 {
		next = len(f.inputs) - 1
	}
	f.focus = next % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Record validates the form and builds a roster record. New records start
// unpaid in both categories; malformed amounts coerce to zero.
func (f *studentForm) Record(validate *validator.Validate) (roster.Record, error) {
	in := studentInput{
		Name:     strings.TrimSpace(f.inputs[fieldName].Value()),
		IDNumber: strings.TrimSpace(f.inputs[fieldID].Value()),
	}
	if err := validate.Struct(in); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, verr := range verrs {
				switch verr.Field() {
				case "Name":
					fields = append(fields, "Nama")
				case "IDNumber":
					fields = append(fields, "No. KP")
				}
			}
		}
		if len(fields) == 0 {
			return roster.Record{}, fmt.Errorf("maklumat tidak lengkap")
		}
		return roster.Record{}, fmt.Errorf("medan diperlukan: %s", strings.Join(fields, ", "))
	}

	rec := roster.Record{
		Name:     in.Name,
		IDNumber: in.IDNumber,
		Grade:    strings.TrimSpace(f.inputs[fieldGrade].Value()),
		Class:    strings.TrimSpace(f.inputs[fieldClass].Value()),
		Mengaji: roster.FeePayment{
			Status: roster.StatusUnpaid,
			Amount: roster.ParseAmount(f.inputs[fieldMengajiAmount].Value()),
		},
		Silat: roster.FeePayment{
			Status: roster.StatusUnpaid,
			Amount: roster.ParseAmount(f.inputs[fieldSilatAmount].Value()),
		},
	}
	rec.Normalize()
	return rec, nil
}

func (f *studentForm) View() string {
	title := "Tambah Pelajar Baharu"
	if f.editIndex >= 0 {
		title = "Sunting Pelajar"
	}
	lines := []string{formTitleStyle.Render(title), ""}
	for i, input := range f.inputs {
		lines = append(lines, formLabelStyle.Render(f.labels[i]+":")+input.View())
	}
	return strings.Join(lines, "\n")
}

// settingsForm edits the settings document.
type settingsForm struct {
	inputs []textinput.Model
	labels []string
	focus  int
}

const (
	settingTitle = iota
	settingBranding
	settingCurrency
	settingFooter
	settingPrefix
	settingLabelMengaji
	settingLabelSilat
	settingCount
)

func newSettingsForm(s config.Settings) *settingsForm {
	f := &settingsForm{
		labels: []string{
			"Tajuk Aplikasi", "Teks Sekolah (atas resit)", "Mata Wang",
			"Footer Resit", "Prefix No. Resit", "Label Yuran Mengaji", "Label Yuran Silat",
		},
	}
	values := []string{
		s.AppTitle, s.BrandingText, s.Currency,
		s.ReceiptFooter, s.ReceiptPrefix, s.Labels.Mengaji, s.Labels.Silat,
	}
	for i := 0; i < settingCount; i++ {
		ti := textinput.New()
		ti.CharLimit = 160
		ti.Width = 56
		ti.SetValue(values[i])
		f.inputs = append(f.inputs, ti)
	}
	f.inputs[settingTitle].Focus()
	return f
}

func (f *settingsForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *settingsForm) setFocus(next int) {
	f.inputs[f.focus].Blur()
	if next < 0 {
		next = len(f.inputs) - 1
	}
	f.focus = next % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// Settings builds the settings document from the form values. Validation
// and defaulting happen in config.SaveSettings.
func (f *settingsForm) Settings() config.Settings {
	return config.Settings{
		AppTitle:      f.inputs[settingTitle].Value(),
		BrandingText:  f.inputs[settingBranding].Value(),
		Currency:      f.inputs[settingCurrency].Value(),
		ReceiptFooter: f.inputs[settingFooter].Value(),
		ReceiptPrefix: f.inputs[settingPrefix].Value(),
		Labels: config.Labels{
			Mengaji: f.inputs[settingLabelMengaji].Value(),
			Silat:   f.inputs[settingLabelSilat].Value(),
		},
	}
}

func (f *settingsForm) View() string {
	lines := []string{formTitleStyle.Render("Tetapan"), ""}
	for i, input := range f.inputs {
		lines = append(lines, formLabelStyle.Render(f.labels[i]+":")+input.View())
	}
	return strings.Join(lines, "\n")
}
