package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smkpu/yuran-asrama/internal/config"
	"github.com/smkpu/yuran-asrama/internal/receipt"
	"github.com/smkpu/yuran-asrama/internal/roster"
)

// receiptView drives the receipt screen: pick a fee category, select
// students, then export individually, as one combined PDF or as a zip.
type receiptView struct {
	students []roster.Record
	category roster.Category
	paidOnly bool
	cursor   int
	selected map[int]struct{}
}

func newReceiptView(students []roster.Record) *receiptView {
	return &receiptView{
		students: students,
		category: roster.Mengaji,
		selected: map[int]struct{}{},
	}
}

// visible returns roster indexes passing the paid-only filter, in order.
func (v *receiptView) visible() []int {
	indexes := make([]int, 0, len(v.students))
	for i, rec := range v.students {
		if v.paidOnly && !rec.Payment(v.category).Paid() {
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes
}

// selection returns the selected records in roster order.
func (v *receiptView) selection() []roster.Record {
	var records []roster.Record
	for _, i := range v.visible() {
		if _, ok := v.selected[i]; ok {
			records = append(records, v.students[i])
		}
	}
	return records
}

func (v *receiptView) clampCursor() {
	visible := v.visible()
	if len(visible) == 0 {
		v.cursor = 0
	} else if v.cursor >= len(visible) {
		v.cursor = len(visible) - 1
	}
}

func (a *App) updateReceipts(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := a.receipts
	if v == nil {
		a.state = stateMenu
		return a, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "esc":
		a.receipts = nil
		a.state = stateMenu
		a.statusMsg = ""
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.visible())-1 {
			v.cursor++
		}
	case "tab":
		if v.category == roster.Mengaji {
			v.category = roster.Silat
		} else {
			v.category = roster.Mengaji
		}
		v.clampCursor()
	case "p":
		v.paidOnly = !v.paidOnly
		v.clampCursor()
	case " ":
		visible := v.visible()
		if v.cursor < len(visible) {
			i := visible[v.cursor]
			if _, ok := v.selected[i]; ok {
				delete(v.selected, i)
			} else {
				v.selected[i] = struct{}{}
			}
		}
	case "a":
		visible := v.visible()
		if len(v.selected) == len(visible) {
			v.selected = map[int]struct{}{}
		} else {
			for _, i := range visible {
				v.selected[i] = struct{}{}
			}
		}
	case "enter":
		a.generateSingle(v)
	case "b":
		a.generateCombined(v)
	case "z":
		a.generateArchive(v)
	}
	return a, nil
}

func (a *App) generateSingle(v *receiptView) {
	visible := v.visible()
	if v.cursor >= len(visible) {
		a.statusMsg = "Pilih seorang pelajar."
		return
	}
	rec := v.students[visible[v.cursor]]
	data, receiptNo, err := a.renderer.RenderRecord(a.config.Settings, rec, v.category)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Gagal menjana resit: %v", err)
		a.logbook.Error("Receipt failed · %s: %v", rec.Name, err)
		return
	}
	name := receipt.FileName(v.category, rec.Name)
	if err := os.WriteFile(filepath.Join(a.config.ReceiptsDir(), name), data, 0o644); err != nil {
		a.statusMsg = fmt.Sprintf("Gagal menyimpan resit: %v", err)
		a.logbook.Error("Receipt write failed · %s: %v", name, err)
		return
	}
	a.logbook.Issued(receiptNo, rec.Name, name)
	a.statusMsg = fmt.Sprintf("Resit disimpan: %s", name)
}

func (a *App) generateCombined(v *receiptView) {
	selection := v.selection()
	if len(selection) == 0 {
		a.statusMsg = "Pilih sekurang-kurangnya seorang."
		return
	}
	data, err := a.renderer.RenderCombined(a.config.Settings, selection, v.category)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Gagal menjana PDF: %v", err)
		a.logbook.Error("Combined export failed: %v", err)
		return
	}
	name := receipt.BulkFileName(v.category, time.Now())
	if err := os.WriteFile(filepath.Join(a.config.ReceiptsDir(), name), data, 0o644); err != nil {
		a.statusMsg = fmt.Sprintf("Gagal menyimpan PDF: %v", err)
		a.logbook.Error("Combined write failed · %s: %v", name, err)
		return
	}
	a.logbook.Info("Bulk PDF · %d resit · %s", len(selection), name)
	a.statusMsg = fmt.Sprintf("%d resit dalam %s", len(selection), name)
}

func (a *App) generateArchive(v *receiptView) {
	selection := v.selection()
	if len(selection) == 0 {
		a.statusMsg = "Pilih sekurang-kurangnya seorang."
		return
	}
	data, err := a.renderer.RenderArchive(a.config.Settings, selection, v.category, a.config.ReceiptsDir())
	if err != nil {
		a.statusMsg = fmt.Sprintf("Gagal menjana ZIP: %v", err)
		a.logbook.Error("Archive export failed: %v", err)
		return
	}
	name := receipt.ArchiveFileName(v.category, time.Now())
	if err := os.WriteFile(filepath.Join(a.config.ReceiptsDir(), name), data, 0o644); err != nil {
		a.statusMsg = fmt.Sprintf("Gagal menyimpan ZIP: %v", err)
		a.logbook.Error("Archive write failed · %s: %v", name, err)
		return
	}
	a.logbook.Info("ZIP · %d resit · %s", len(selection), name)
	a.statusMsg = fmt.Sprintf("%d resit dalam %s", len(selection), name)
}

// View renders the selection list with the current category and filter.
func (v *receiptView) View(s config.Settings, width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Jana Resit · %s", s.Label(v.category)))

	filter := "semua pelajar"
	if v.paidOnly {
		filter = "hanya Sudah Bayar"
	}
	visible := v.visible()
	meta := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(fmt.Sprintf("%d rekod (%s) · %d dipilih", len(visible), filter, len(v.selected)))

	var rows []string
	for pos, i := range visible {
		rec := v.students[i]
		fee := rec.Payment(v.category)
		mark := "[ ]"
		if _, ok := v.selected[i]; ok {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s · %s · %s · %s",
			mark, rec.Name, rec.IDNumber, fee.Status, receipt.Currency(s.Currency, fee.Amount))
		style := lipgloss.NewStyle().Width(max(20, width))
		if pos == v.cursor {
			style = style.Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
			line = "> " + line
		} else {
			line = "  " + line
		}
		rows = append(rows, style.Render(line))
	}
	if len(rows) == 0 {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Render("Tiada rekod sepadan dengan penapis."))
	}

	return strings.Join(append([]string{title, meta, ""}, rows...), "\n")
}
