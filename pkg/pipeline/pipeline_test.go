package pipeline_test

import (
	"archive/zip"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/ratingcsv/internal/mock"
	"github.com/m-mizutani/ratingcsv/pkg/dataset"
	"github.com/m-mizutani/ratingcsv/pkg/exporter"
	"github.com/m-mizutani/ratingcsv/pkg/handler"
	"github.com/m-mizutani/ratingcsv/pkg/models"
	"github.com/m-mizutani/ratingcsv/pkg/pipeline"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArgs(t *testing.T) handler.Arguments {
	root, err := ioutil.TempDir("", "pipeline")
	require.NoError(t, err)

	return handler.Arguments{
		EnvVars:   handler.EnvVars{AwsRegion: "dokoka"},
		SourceDir: filepath.Join(root, "datasets"),
		DistDir:   filepath.Join(root, "dist"),
		NewS3:     mock.NewS3Client,
	}
}

func cleanup(args handler.Arguments) {
	os.RemoveAll(filepath.Dir(args.SourceDir))
}

func writeArchive(t *testing.T, path string, files map[string]string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	fd, err := os.Create(path)
	require.NoError(t, err)
	defer fd.Close()

	zw := zip.NewWriter(fd)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

var sampleFiles = map[string]string{
	"combined_data_1.txt": "1:\n1488844,3,2005-09-06\n822109,5,2005-05-13\n",
	"combined_data_2.txt": "2:\n2059652,4,2005-09-05\n",
	"probe.txt":           "1:\n30878\n",
	"movie_titles.csv":    "1,2003,Dinosaur Planet\n",
}

func TestRun(t *testing.T) {
	args := newArgs(t)
	defer cleanup(args)
	writeArchive(t, filepath.Join(args.SourceDir, "archive.zip"), sampleFiles)

	report, err := pipeline.Run(args, pipeline.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Extracted)
	assert.Equal(t, 3, len(report.Converted))
	assert.Equal(t, []string{"movie_titles.csv"}, report.Copied)
	require.NotNil(t, report.Merged)
	assert.Equal(t, 2, len(report.Merged.Shards))
	assert.Equal(t, 3, report.Merged.Rows)
	assert.Contains(t, report.Profile, "convert")
	assert.Contains(t, report.Profile, "merge")

	raw, err := ioutil.ReadFile(filepath.Join(args.DistDir, "combined_data_merged.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "MovieID,CustomerID,Rate,Date\n")
	assert.Contains(t, string(raw), "2,2059652,4,2005-09-05\n")

	probe, err := ioutil.ReadFile(filepath.Join(args.DistDir, "probe.csv"))
	require.NoError(t, err)
	assert.Equal(t, "MovieID,CustomerID\n1,30878\n", string(probe))

	t.Run("re-run keeps the same merged rows", func(tt *testing.T) {
		report, err := pipeline.Run(args, pipeline.RunOptions{})
		require.NoError(tt, err)
		assert.Equal(tt, 3, report.Merged.Rows)
	})
}

func TestRunWithExportAndUpload(t *testing.T) {
	args := newArgs(t)
	defer cleanup(args)
	writeArchive(t, filepath.Join(args.SourceDir, "archive.zip"), sampleFiles)

	bucket := uuid.New().String()
	pqPath := filepath.Join(args.DistDir, "combined_data_merged.parquet")

	report, err := pipeline.Run(args, pipeline.RunOptions{
		Spool:       true,
		BatchMerge:  true,
		ParquetPath: pqPath,
		UploadURL:   "s3://" + bucket + "/netflix",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.ParquetRows)

	n, err := exporter.CountParquetRows(pqPath)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.Equal(t, []string{
		"s3://" + bucket + "/netflix/combined_data_merged.csv",
		"s3://" + bucket + "/netflix/combined_data_merged.parquet",
	}, report.Uploaded)

	merged, err := ioutil.ReadFile(filepath.Join(args.DistDir, "combined_data_merged.csv"))
	require.NoError(t, err)
	obj := models.NewS3Object("dokoka", bucket, "netflix/combined_data_merged.csv")
	raw, err := args.S3Service().DownloadS3Object(obj)
	require.NoError(t, err)
	assert.Equal(t, string(merged), string(raw))
}

func TestRunWithoutArchive(t *testing.T) {
	args := newArgs(t)
	defer cleanup(args)

	_, err := pipeline.Run(args, pipeline.RunOptions{})
	require.Error(t, err)
	assert.Equal(t, dataset.ErrArchiveNotFound, errors.Cause(err))

	// directories are prepared even if archive is missing
	_, err = os.Stat(args.DistDir)
	assert.NoError(t, err)
}

func TestConvertAndMerge(t *testing.T) {
	args := newArgs(t)
	defer cleanup(args)
	require.NoError(t, os.MkdirAll(args.SourceDir, 0755))
	for name, body := range sampleFiles {
		require.NoError(t, ioutil.WriteFile(filepath.Join(args.SourceDir, name), []byte(body), 0644))
	}

	results, err := pipeline.Convert(args, pipeline.ConvertOptions{Pattern: "combined_*.txt"})
	require.NoError(t, err)
	assert.Equal(t, 2, len(results))

	bucket := uuid.New().String()
	res, err := pipeline.Merge(args, pipeline.MergeOptions{UploadURL: "s3://" + bucket + "/"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)

	raw, err := args.S3Service().DownloadS3Object(models.NewS3Object("dokoka", bucket, "combined_data_merged.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "1,822109,5,2005-05-13\n")

	t.Run("weird file name aborts", func(tt *testing.T) {
		require.NoError(tt, ioutil.WriteFile(filepath.Join(args.SourceDir, "weird.txt"), []byte("1:\n2\n"), 0644))
		_, err := pipeline.Convert(args, pipeline.ConvertOptions{Pattern: "weird.txt"})
		require.Error(tt, err)
		assert.Equal(tt, models.ErrUndefinedFileName, errors.Cause(err))
	})

	t.Run("no shard is not an error", func(tt *testing.T) {
		res, err := pipeline.Merge(args, pipeline.MergeOptions{Prefix: "qualifying"})
		require.NoError(tt, err)
		assert.Equal(tt, 0, len(res.Shards))
	})
}
