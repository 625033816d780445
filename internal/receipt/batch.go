package receipt

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smkpu/yuran-asrama/internal/config"
	"github.com/smkpu/yuran-asrama/internal/roster"
)

// ErrNoStudents is returned when a batch operation receives an empty
// selection. The shell guards against this; the exporter still refuses to
// produce a vacuous document.
var ErrNoStudents = errors.New("receipt: no students selected")

// RenderCombined produces one document with one full receipt page per
// student, in input order. Each page computes its own receipt number and
// blank-date substitution, so pages rendered across a second boundary can
// legitimately differ.
func (r *Renderer) RenderCombined(s config.Settings, students []roster.Record, c roster.Category) ([]byte, error) {
	if len(students) == 0 {
		return nil, ErrNoStudents
	}
	doc := r.newDocument()
	for _, student := range students {
		fee := student.Payment(c)
		r.writePage(doc, s, student, c, fee.Amount, fee.PaidDate, r.Number(s.ReceiptPrefix))
	}
	return output(doc)
}

// RenderArchive produces one document per student, bundles them into a
// deflate zip and mirrors each document to outDir. Students whose
// sanitized names collide overwrite each other in both the zip and the
// directory; the numbering scheme accepts that loss.
func (r *Renderer) RenderArchive(s config.Settings, students []roster.Record, c roster.Category, outDir string) ([]byte, error) {
	if len(students) == 0 {
		return nil, ErrNoStudents
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("receipt: ensure output dir: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, student := range students {
		data, _, err := r.RenderRecord(s, student, c)
		if err != nil {
			return nil, err
		}
		name := FileName(c, student.Name)
		entry, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("receipt: add %s to archive: %w", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			return nil, fmt.Errorf("receipt: write %s to archive: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
			return nil, fmt.Errorf("receipt: write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("receipt: close archive: %w", err)
	}
	return buf.Bytes(), nil
}
