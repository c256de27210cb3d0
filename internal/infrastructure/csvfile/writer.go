// Package csvfile writes canonical event tables as flat CSV artifacts.
package csvfile

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/courtlog/nba-pbp/internal/domain/pbp"
)

// Write streams the table to w with the canonical header row first.
func Write(w io.Writer, table *pbp.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pbp.Columns); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for i := range table.Rows {
		if err := cw.Write(table.Rows[i].Record()); err != nil {
			return errors.Wrapf(err, "write csv row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// WriteFile writes the table to path, creating or truncating the file.
func WriteFile(path string, table *pbp.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %q", path)
	}
	if err := Write(f, table); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %q", path)
}
