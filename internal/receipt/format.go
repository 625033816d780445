package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/smkpu/yuran-asrama/internal/roster"
)

var printer = message.NewPrinter(language.English)

// Currency renders an amount as <symbol><n,nnn.dd>, e.g. RM1,234.50.
func Currency(symbol string, amount decimal.Decimal) string {
	return symbol + printer.Sprintf("%.2f", amount.InexactFloat64())
}

// FileName builds the per-student receipt filename. Spaces in the name
// become underscores; two students with the same sanitized name collide
// and the later one wins.
func FileName(c roster.Category, studentName string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(studentName), " ", "_")
	return fmt.Sprintf("resit_%s_%s.pdf", c.Key(), sanitized)
}

// BulkFileName names a combined multi-page document.
func BulkFileName(c roster.Category, t time.Time) string {
	return fmt.Sprintf("bulk_%s_%s.pdf", c.Key(), t.Format("20060102_1504"))
}

// ArchiveFileName names a zip of separate receipt documents.
func ArchiveFileName(c roster.Category, t time.Time) string {
	return fmt.Sprintf("resit_zip_%s_%s.zip", c.Key(), t.Format("20060102_1504"))
}
