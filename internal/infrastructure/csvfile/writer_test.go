package csvfile

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
)

func sampleTable() *pbp.Table {
	return &pbp.Table{Rows: []pbp.Row{
		{GameID: "0022300477", Period: 1, ClockRemaining: "10:30", Family: pbp.FamilyThreePt},
		{GameID: "0022300477", Period: 1, ClockRemaining: "10:10", Family: pbp.FamilyRebound},
	}}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable()); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d records", len(records))
	}
	if len(records[0]) != len(pbp.Columns) {
		t.Fatalf("header width %d, schema width %d", len(records[0]), len(pbp.Columns))
	}
	for i, column := range pbp.Columns {
		if records[0][i] != column {
			t.Fatalf("header column %d: got %q, want %q", i, records[0][i], column)
		}
	}
	for i, record := range records[1:] {
		if len(record) != len(pbp.Columns) {
			t.Fatalf("row %d width %d, schema width %d", i, len(record), len(pbp.Columns))
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0022300477.csv")
	if err := WriteFile(path, sampleTable()); err != nil {
		t.Fatalf("write file: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("empty file written")
	}
}
