package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmountCoercion(t *testing.T) {
	cases := map[string]string{
		"50.5":   "50.50",
		"0":      "0.00",
		"":       "0.00",
		"abc":    "0.00",
		"-12.30": "0.00",
		" 7 ":    "7.00",
	}
	for input, want := range cases {
		if got := ParseAmount(input).StringFixed(2); got != want {
			t.Fatalf("ParseAmount(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestLoadMissingFileReturnsEmptyRoster(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "students.csv"))
	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty roster, got %d records", len(records))
	}
}

func TestLoadSynthesizesMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	csv := "NAMA,NO_KP\nAli bin Ahmad,010101-01-0101\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	records, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Name != "Ali bin Ahmad" || rec.IDNumber != "010101-01-0101" {
		t.Fatalf("unexpected identity fields: %+v", rec)
	}
	if rec.Grade != "" || rec.Class != "" {
		t.Fatalf("expected synthesized empty grade/class, got %q / %q", rec.Grade, rec.Class)
	}
	if !rec.Mengaji.Amount.IsZero() || !rec.Silat.Amount.IsZero() {
		t.Fatalf("expected zero amounts, got %s / %s", rec.Mengaji.Amount, rec.Silat.Amount)
	}
	if rec.Mengaji.Status != StatusUnpaid || rec.Silat.Status != StatusUnpaid {
		t.Fatalf("expected unpaid statuses, got %q / %q", rec.Mengaji.Status, rec.Silat.Status)
	}
}

func TestLoadCoercesMalformedAmounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	csv := strings.Join([]string{
		strings.Join(columns, ","),
		"Siti,020202-02-0202,5,Inovatif,Sudah Bayar,banyak,2025-01-10,Belum Bayar,-40,",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	records, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	rec := records[0]
	if !rec.Mengaji.Amount.IsZero() {
		t.Fatalf("malformed amount should coerce to zero, got %s", rec.Mengaji.Amount)
	}
	if !rec.Silat.Amount.IsZero() {
		t.Fatalf("negative amount should clamp to zero, got %s", rec.Silat.Amount)
	}
	if !rec.Mengaji.Paid() {
		t.Fatalf("expected mengaji paid, got %q", rec.Mengaji.Status)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.csv")
	store := NewStore(path)
	records := []Record{
		{
			Name: "Ali bin Ahmad", IDNumber: "010101-01-0101", Grade: "4", Class: "Bestari",
			Mengaji: FeePayment{Status: StatusPaid, Amount: decimal.NewFromFloat(50), PaidDate: "2025-01-10"},
			Silat:   FeePayment{Status: StatusUnpaid, Amount: decimal.NewFromFloat(30)},
		},
		{
			Name: "Siti Aminah", IDNumber: "020202-02-0202", Grade: "5", Class: "Dinamik",
		},
	}
	if err := store.Save(records); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].Mengaji.Amount.StringFixed(2) != "50.00" {
		t.Fatalf("amount lost in round trip: %s", loaded[0].Mengaji.Amount)
	}
	if loaded[0].Mengaji.PaidDate != "2025-01-10" {
		t.Fatalf("paid date lost in round trip: %q", loaded[0].Mengaji.PaidDate)
	}
	if loaded[1].Silat.Status != StatusUnpaid {
		t.Fatalf("expected normalized unpaid status, got %q", loaded[1].Silat.Status)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), strings.Join(columns, ",")) {
		t.Fatalf("header row missing: %s", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestFeeCategoriesAreIndependent(t *testing.T) {
	rec := Record{Name: "Ali"}
	rec.Fee(Mengaji).Status = StatusPaid
	rec.Fee(Mengaji).PaidDate = "2025-02-01"
	if rec.Silat.Status == StatusPaid || rec.Silat.PaidDate != "" {
		t.Fatalf("paying mengaji must not touch silat: %+v", rec.Silat)
	}
}

func TestMatches(t *testing.T) {
	rec := Record{Name: "Ali bin Ahmad", IDNumber: "010101-01-0101", Grade: "4", Class: "Bestari"}
	for _, q := range []string{"", "ali", "0101", "bestari", "4"} {
		if !rec.Matches(q) {
			t.Fatalf("expected match for %q", q)
		}
	}
	if rec.Matches("zulkifli") {
		t.Fatalf("unexpected match")
	}
}

func TestImportReplacesRoster(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "students.csv"))
	if err := store.Save([]Record{{Name: "Lama"}}); err != nil {
		t.Fatal(err)
	}
	upload := filepath.Join(dir, "upload.csv")
	csv := "NAMA,NO_KP\nBaharu,030303-03-0303\n"
	if err := os.WriteFile(upload, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	records, err := store.Import(upload)
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(records) != 1 || records[0].Name != "Baharu" {
		t.Fatalf("import did not replace roster: %+v", records)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Baharu" {
		t.Fatalf("replacement not persisted: %+v", loaded)
	}
}
