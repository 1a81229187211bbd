package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/ratingcsv/internal"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

var logger = internal.Logger

const rowGroupSize = 128 * 1024 * 1024

// columnMetadata builds parquet CSV writer metadata. Every column is an
// optional UTF8 string because shards are merged without type inference.
func columnMetadata(header []string) []string {
	md := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("col_%d", i)
		}
		md[i] = fmt.Sprintf("name=%s, type=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL", name)
	}
	return md
}

// ExportParquet converts CSV file at csvPath into parquet file at parquetPath.
// A row shorter than header is padded with null and a longer one is truncated.
func ExportParquet(csvPath, parquetPath string) (int64, error) {
	fd, err := os.Open(csvPath)
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to open CSV: %s", csvPath)
	}
	defer fd.Close()

	cr := csv.NewReader(fd)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return 0, errors.Errorf("No header in CSV: %s", csvPath)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to read header: %s", csvPath)
	}

	fw, err := local.NewLocalFileWriter(parquetPath)
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to create a parquet file: %s", parquetPath)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			logger.WithError(err).Error("Fail to close parquet file")
		}
	}()

	pw, err := writer.NewCSVWriter(columnMetadata(header), fw, 1)
	if err != nil {
		return 0, errors.Wrap(err, "Fail to create parquet writer")
	}
	pw.RowGroupSize = rowGroupSize
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	var count int64
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			pw.WriteStop()
			return count, errors.Wrapf(err, "Fail to read CSV: %s", csvPath)
		}

		rec := make([]*string, len(header))
		for i := range rec {
			if i < len(row) {
				v := row[i]
				rec[i] = &v
			}
		}

		if err := pw.WriteString(rec); err != nil {
			pw.WriteStop()
			return count, errors.Wrapf(err, "Fail to write record as parquet: %v", row)
		}
		count++
	}

	if err := pw.WriteStop(); err != nil {
		return count, errors.Wrap(err, "Fail to stop writing parquet file")
	}

	logger.WithFields(logrus.Fields{
		"src":  csvPath,
		"dst":  parquetPath,
		"rows": count,
	}).Info("Export: parquet file created")

	return count, nil
}

// CountParquetRows returns number of rows recorded in parquet footer.
func CountParquetRows(parquetPath string) (int64, error) {
	fr, err := local.NewLocalFileReader(parquetPath)
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to open parquet file: %s", parquetPath)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to create parquet reader: %s", parquetPath)
	}
	defer pr.ReadStop()

	return pr.GetNumRows(), nil
}
