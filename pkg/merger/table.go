package merger

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/m-mizutani/ratingcsv/pkg/dataset"
	"github.com/pkg/errors"
)

// Table is CSV data with header. Rows are aligned to header by position only.
type Table struct {
	Header []string
	Rows   [][]string
}

// LoadTable reads a CSV file. The first record is header and the rest are rows.
// Records may have different number of fields.
func LoadTable(path string) (*Table, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to open shard: %s", path)
	}
	defer fd.Close()

	reader := csv.NewReader(fd)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Errorf("No header in shard: %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read header of shard: %s", path)
	}

	table := &Table{Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "Fail to read shard: %s", path)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Append concatenates rows of other. Header of x is kept even if header of
// other differs.
func (x *Table) Append(other *Table) {
	if x.Header == nil {
		x.Header = other.Header
	}
	x.Rows = append(x.Rows, other.Rows...)
}

// Save writes whole table to path. path is replaced only after all records are written.
func (x *Table) Save(path string) error {
	return dataset.WriteFileAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(x.Header); err != nil {
			return errors.Wrap(err, "Fail to write header")
		}
		if err := cw.WriteAll(x.Rows); err != nil {
			return errors.Wrapf(err, "Fail to write rows: %s", path)
		}
		return nil
	})
}

func sameHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
