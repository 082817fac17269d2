package csvparse

import (
	"testing"

	"github.com/ptengelmann/ProfilanIQ/domain/dataset"
	"github.com/ptengelmann/ProfilanIQ/internal/errors"
	"github.com/ptengelmann/ProfilanIQ/ports"
)

func TestParseTypedCells(t *testing.T) {
	parser := New(nil)
	text := "name,age,score\nalice,30,91.5\nbob,,88\ncarol,41,\n"

	table, stats, err := parser.Parse(text, ports.ParseOptions{SkipEmptyLines: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.RowErrors != 0 {
		t.Errorf("rowErrors = %d, want 0", stats.RowErrors)
	}
	if table.Len() != 3 {
		t.Fatalf("rows = %d, want 3", table.Len())
	}

	if cell := table.Cell(0, "age"); !cell.IsNumber() || cell.Num != 30 {
		t.Errorf("age[0] = %+v, want number 30", cell)
	}
	if cell := table.Cell(1, "age"); !cell.IsNull() {
		t.Errorf("age[1] = %+v, want null", cell)
	}
	if cell := table.Cell(0, "name"); cell.Kind != dataset.CellString || cell.Str != "alice" {
		t.Errorf("name[0] = %+v, want string alice", cell)
	}
}

func TestCustomDelimiter(t *testing.T) {
	parser := New(nil)
	text := "a;b\n1;2\n"

	table, _, err := parser.Parse(text, ports.ParseOptions{Delimiter: ";"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !table.HasColumn("b") {
		t.Errorf("columns = %v, want [a b]", table.Columns())
	}
}

func TestInvalidDelimiterIsValidationError(t *testing.T) {
	parser := New(nil)

	_, _, err := parser.Parse("a,b\n1,2\n", ports.ParseOptions{Delimiter: "--"})
	if err == nil {
		t.Fatal("expected an error for a multi-character delimiter")
	}
	if !errors.HasCode(err, errors.CodeValidationError) {
		t.Errorf("error code = %s, want VALIDATION_ERROR", errors.GetCode(err))
	}
}

func TestSkipEmptyLines(t *testing.T) {
	parser := New(nil)
	text := "a,b\n1,2\n\n\n3,4\n"

	table, stats, err := parser.Parse(text, ports.ParseOptions{SkipEmptyLines: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("rows = %d, want 2", table.Len())
	}
	_ = stats
}

func TestRaggedRowsCountedNotFatal(t *testing.T) {
	parser := New(nil)
	text := "a,b\n1,2\n3\n4,5,6\n7,8\n"

	table, stats, err := parser.Parse(text, ports.ParseOptions{SkipEmptyLines: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("rows = %d, want 2 well-formed rows", table.Len())
	}
	if stats.RowErrors != 2 {
		t.Errorf("rowErrors = %d, want 2", stats.RowErrors)
	}
}

func TestNonFiniteStringsStayStrings(t *testing.T) {
	parser := New(nil)
	text := "v\nNaN\nInf\n1.5\n"

	table, _, err := parser.Parse(text, ports.ParseOptions{SkipEmptyLines: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cell := table.Cell(0, "v"); cell.Kind != dataset.CellString {
		t.Errorf("NaN should stay a string, got %+v", cell)
	}
	if cell := table.Cell(2, "v"); !cell.IsNumber() {
		t.Errorf("1.5 should parse numeric, got %+v", cell)
	}
}

func TestHeaderOnlyYieldsEmptyView(t *testing.T) {
	parser := New(nil)

	table, _, err := parser.Parse("a,b\n", ports.ParseOptions{SkipEmptyLines: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("rows = %d, want 0", table.Len())
	}
}
