package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestImportStockCSVFromReader_WithHeaders(t *testing.T) {
	input := "SKU,Name,Type,Length,Qty,Scrap,Price\n" +
		"PVC-6400-A,Frame 6.4m,Frame-A,6400,24,35,48.50\n" +
		"PVC-3100-H,,Reinforcement,3100,,20,\n"

	result := ImportStockCSVFromReader(strings.NewReader(input), ',')
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(result.Profiles))
	}

	first := result.Profiles[0]
	if first.SKU != "PVC-6400-A" || first.Name != "Frame 6.4m" || first.ProfileType != "Frame-A" {
		t.Errorf("unexpected first profile %+v", first)
	}
	if first.LengthMm != 6400 || first.ScrapAllowanceMm != 35 {
		t.Errorf("unexpected length/scrap %d/%d", first.LengthMm, first.ScrapAllowanceMm)
	}
	if n, tracked := first.OnHand(); !tracked || n != 24 {
		t.Errorf("expected 24 tracked bars, got %d (tracked=%v)", n, tracked)
	}
	if !first.PricePerBar.Equal(decimal.RequireFromString("48.50")) {
		t.Errorf("expected price 48.50, got %s", first.PricePerBar)
	}
	if first.ID == "" {
		t.Error("expected generated id")
	}

	second := result.Profiles[1]
	if second.Name != "PVC-3100-H" {
		t.Errorf("empty name should fall back to SKU, got %q", second.Name)
	}
	if _, tracked := second.OnHand(); tracked {
		t.Error("empty quantity should leave stock untracked")
	}
	if !second.PricePerBar.IsZero() {
		t.Errorf("expected zero price, got %s", second.PricePerBar)
	}
}

func TestImportStockCSVFromReader_Positional(t *testing.T) {
	input := "PVC-5200-B;Frame 5.2m;Frame-B;5200;30;35;41.20\n"
	result := ImportStockCSVFromReader(strings.NewReader(input), ';')
	if len(result.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d (errors: %v)", len(result.Profiles), result.Errors)
	}
	if result.Profiles[0].LengthMm != 5200 {
		t.Errorf("expected length 5200, got %d", result.Profiles[0].LengthMm)
	}
}

func TestImportStockCSVFromReader_Errors(t *testing.T) {
	input := "Length,Qty,Scrap,Price\n" +
		"0,1,0,1\n" + // zero length
		"6000,-1,0,1\n" + // negative stock
		"6000,1,-3,1\n" + // negative scrap
		"6000,1,0,abc\n" // bad price is a warning
	result := ImportStockCSVFromReader(strings.NewReader(input), ',')

	if len(result.Errors) != 3 {
		t.Errorf("expected 3 errors, got %v", result.Errors)
	}
	if len(result.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(result.Profiles))
	}
	if result.Profiles[0].Name != "Profile 1" {
		t.Errorf("expected generated name, got %q", result.Profiles[0].Name)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Invalid price") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected price warning, got %v", result.Warnings)
	}
}

func TestImportStockCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.csv")
	if err := os.WriteFile(path, []byte("Length\tQty\n6000\t5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportStockCSV(path)
	if len(result.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d (errors: %v)", len(result.Profiles), result.Errors)
	}
}

func TestImportStockExcel(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"SKU", "Length", "Quantity", "Price"},
		{"PVC-6000", 6000, 12, "55.10"},
	})
	result := ImportStockExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(result.Profiles))
	}
	if !result.Profiles[0].PricePerBar.Equal(decimal.RequireFromString("55.10")) {
		t.Errorf("expected price 55.10, got %s", result.Profiles[0].PricePerBar)
	}
}
