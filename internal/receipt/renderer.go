// Package receipt generates the payment receipt documents: one fixed A4
// layout per student and fee category, rendered individually, as one
// combined multi-page PDF, or as a zip archive of separate PDFs.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/smkpu/yuran-asrama/internal/config"
	"github.com/smkpu/yuran-asrama/internal/roster"
)

const dateLayout = "2006-01-02"

// Renderer produces receipt documents. The clock feeds blank-date
// substitution, receipt numbers and the document metadata, so a fixed
// clock makes the output fully deterministic.
type Renderer struct {
	now func() time.Time
}

// Option customizes a Renderer during construction.
type Option func(*Renderer)

// WithClock overrides the clock used for dates and receipt numbers.
func WithClock(clock func() time.Time) Option {
	return func(r *Renderer) {
		r.now = clock
	}
}

// New builds a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Number generates a receipt number as <prefix>-YYYYMMDD-HHMMSS.
// Two documents rendered within the same second share a number; the
// numbering scheme has no disambiguation.
func (r *Renderer) Number(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, r.now().Format("20060102-150405"))
}

// Render produces a single one-page receipt. A blank paidDate is replaced
// with the current date; it is not written back to the record. Missing
// student fields render as empty strings, never as errors.
func (r *Renderer) Render(s config.Settings, student roster.Record, c roster.Category, amount decimal.Decimal, paidDate, receiptNo string) ([]byte, error) {
	doc := r.newDocument()
	r.writePage(doc, s, student, c, amount, paidDate, receiptNo)
	return output(doc)
}

// RenderRecord resolves amount, paid date and a fresh receipt number from
// the record itself, then renders. Returns the receipt number alongside
// the bytes so callers can log it.
func (r *Renderer) RenderRecord(s config.Settings, student roster.Record, c roster.Category) ([]byte, string, error) {
	fee := student.Payment(c)
	receiptNo := r.Number(s.ReceiptPrefix)
	data, err := r.Render(s, student, c, fee.Amount, fee.PaidDate, receiptNo)
	if err != nil {
		return nil, "", err
	}
	return data, receiptNo, nil
}

// newDocument creates an A4 portrait document. Content streams stay
// uncompressed so the rendered text is inspectable in the raw bytes.
func (r *Renderer) newDocument() *gofpdf.Fpdf {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.SetCompression(false)
	doc.SetCreationDate(r.now())
	return doc
}

// writePage appends one self-contained receipt page. Every page repeats
// the full header block and resolves its own blank date.
func (r *Renderer) writePage(doc *gofpdf.Fpdf, s config.Settings, student roster.Record, c roster.Category, amount decimal.Decimal, paidDate, receiptNo string) {
	if paidDate == "" {
		paidDate = r.now().Format(dateLayout)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()

	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 8, tr(s.BrandingText), "", 1, "", false, 0, "")
	doc.SetFont("Arial", "", 12)
	doc.CellFormat(0, 6, "RESIT PEMBAYARAN YURAN", "", 1, "", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Arial", "", 11)
	doc.CellFormat(40, 6, "Nama:", "", 0, "", false, 0, "")
	doc.CellFormat(0, 6, tr(student.Name), "", 1, "", false, 0, "")
	doc.CellFormat(40, 6, "No. KP:", "", 0, "", false, 0, "")
	doc.CellFormat(0, 6, tr(student.IDNumber), "", 1, "", false, 0, "")
	doc.CellFormat(40, 6, "Tingkatan / Kelas:", "", 0, "", false, 0, "")
	doc.CellFormat(0, 6, tr(fmt.Sprintf("%s / %s", student.Grade, student.Class)), "", 1, "", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(0, 7, "Yuran Dibayar:", "", 1, "", false, 0, "")
	doc.SetFont("Arial", "", 11)
	doc.CellFormat(70, 6, tr("- "+s.Label(c)), "", 0, "", false, 0, "")
	doc.CellFormat(0, 6, tr(Currency(s.Currency, amount)), "", 1, "", false, 0, "")
	doc.Ln(6)

	doc.CellFormat(40, 6, "Tarikh:", "", 0, "", false, 0, "")
	doc.CellFormat(0, 6, paidDate, "", 1, "", false, 0, "")
	doc.CellFormat(40, 6, "No. Resit:", "", 0, "", false, 0, "")
	doc.CellFormat(0, 6, receiptNo, "", 1, "", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Arial", "I", 9)
	doc.MultiCell(0, 5, tr(s.ReceiptFooter), "", "", false)
}

func output(doc *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt: render document: %w", err)
	}
	return buf.Bytes(), nil
}
