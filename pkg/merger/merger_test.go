package merger_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/ratingcsv/pkg/merger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDistDir(t *testing.T, shards map[string]string) string {
	dir, err := ioutil.TempDir("", "merge")
	require.NoError(t, err)
	for name, body := range shards {
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	return dir
}

func fixedOrder(names ...string) func(string) ([]string, error) {
	return func(string) ([]string, error) { return names, nil }
}

func readLines(t *testing.T, path string) []string {
	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
}

func TestMergeShards(t *testing.T) {
	t.Run("two shards with same header", func(tt *testing.T) {
		dir := newDistDir(tt, map[string]string{
			"combined_data_1.csv": "A,B\n1,a\n2,b\n",
			"combined_data_2.csv": "A,B\n3,c\n4,d\n",
			"probe.csv":           "A\n9\n",
		})
		defer os.RemoveAll(dir)

		res, err := merger.MergeShards(dir, "combined_data", "*.csv", nil)
		require.NoError(tt, err)
		assert.Equal(tt, filepath.Join(dir, "combined_data_merged.csv"), res.Path)
		assert.Equal(tt, 4, res.Rows)
		assert.Equal(tt, []string{"A", "B"}, res.Header)
		require.Equal(tt, 2, len(res.Shards))

		lines := readLines(tt, res.Path)
		require.Equal(tt, 5, len(lines))
		assert.Equal(tt, "A,B", lines[0])

		// rows follow shard iteration order
		expected := map[string][]string{
			"combined_data_1.csv": {"1,a", "2,b"},
			"combined_data_2.csv": {"3,c", "4,d"},
		}
		var rows []string
		for _, shard := range res.Shards {
			rows = append(rows, expected[shard]...)
		}
		assert.Equal(tt, rows, lines[1:])
	})

	t.Run("re-run does not read merged file", func(tt *testing.T) {
		dir := newDistDir(tt, map[string]string{
			"combined_data_1.csv": "A,B\n1,a\n2,b\n",
			"combined_data_2.csv": "A,B\n3,c\n4,d\n",
		})
		defer os.RemoveAll(dir)

		_, err := merger.MergeShards(dir, "combined_data", "*.csv", nil)
		require.NoError(tt, err)
		res, err := merger.MergeShards(dir, "combined_data", "*.csv", nil)
		require.NoError(tt, err)

		assert.Equal(tt, 4, res.Rows)
		assert.Equal(tt, 2, len(res.Shards))
		assert.Equal(tt, 5, len(readLines(tt, res.Path)))
	})

	t.Run("listing order decides row order", func(tt *testing.T) {
		dir := newDistDir(tt, map[string]string{
			"combined_data_1.csv": "A,B\n1,a\n",
			"combined_data_2.csv": "A,B\n2,b\n",
			"combined_data_3.csv": "A,B\n3,c\n",
		})
		defer os.RemoveAll(dir)

		opt := &merger.MergeOptions{
			Lister: fixedOrder("combined_data_3.csv", "combined_data_1.csv", "combined_data_2.csv"),
		}
		res, err := merger.MergeShards(dir, "combined_data", "*.csv", opt)
		require.NoError(tt, err)
		assert.Equal(tt, []string{"combined_data_3.csv", "combined_data_1.csv", "combined_data_2.csv"}, res.Shards)
		assert.Equal(tt, []string{"A,B", "3,c", "1,a", "2,b"}, readLines(tt, res.Path))
	})

	t.Run("different headers are concatenated by position", func(tt *testing.T) {
		dir := newDistDir(tt, map[string]string{
			"combined_data_1.csv": "A,B\n1,a\n",
			"combined_data_2.csv": "X,Y,Z\n2,b,extra\n",
		})
		defer os.RemoveAll(dir)

		opt := &merger.MergeOptions{Lister: fixedOrder("combined_data_1.csv", "combined_data_2.csv")}
		res, err := merger.MergeShards(dir, "combined_data", "*.csv", opt)
		require.NoError(tt, err)
		assert.Equal(tt, []string{"A", "B"}, res.Header)
		assert.Equal(tt, 2, res.Rows)
		assert.Equal(tt, []string{"A,B", "1,a", "2,b,extra"}, readLines(tt, res.Path))
	})

	t.Run("no target file", func(tt *testing.T) {
		dir := newDistDir(tt, map[string]string{"probe.csv": "A\n1\n"})
		defer os.RemoveAll(dir)

		res, err := merger.MergeShards(dir, "combined_data", "*.csv", nil)
		require.NoError(tt, err)
		assert.Empty(tt, res.Shards)
		_, err = os.Stat(res.Path)
		assert.True(tt, os.IsNotExist(err))
	})

	t.Run("quoted fields are kept", func(tt *testing.T) {
		dir := newDistDir(tt, map[string]string{
			"movie_titles_1.csv": "ID,Title\n1,\"Dinosaur Planet, The\"\n",
		})
		defer os.RemoveAll(dir)

		res, err := merger.MergeShards(dir, "movie_titles", "*.csv", nil)
		require.NoError(tt, err)
		assert.Equal(tt, []string{"ID,Title", "1,\"Dinosaur Planet, The\""}, readLines(tt, res.Path))
	})
}

func TestMergeShardsDurability(t *testing.T) {
	shards := map[string]string{
		"combined_data_1.csv": "A,B\n1,a\n2,b\n",
		"combined_data_2.csv": "",
	}
	order := fixedOrder("combined_data_1.csv", "combined_data_2.csv")

	t.Run("partial result survives a failing shard", func(tt *testing.T) {
		dir := newDistDir(tt, shards)
		defer os.RemoveAll(dir)

		_, err := merger.MergeShards(dir, "combined_data", "*.csv", &merger.MergeOptions{Lister: order})
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "combined_data_2.csv")
		assert.Equal(tt, []string{"A,B", "1,a", "2,b"}, readLines(tt, filepath.Join(dir, "combined_data_merged.csv")))
	})

	t.Run("batch write leaves nothing on failure", func(tt *testing.T) {
		dir := newDistDir(tt, shards)
		defer os.RemoveAll(dir)

		_, err := merger.MergeShards(dir, "combined_data", "*.csv", &merger.MergeOptions{Lister: order, BatchWrite: true})
		require.Error(tt, err)
		_, err = os.Stat(filepath.Join(dir, "combined_data_merged.csv"))
		assert.True(tt, os.IsNotExist(err))
	})

	t.Run("batch write gives same result", func(tt *testing.T) {
		dir := newDistDir(tt, map[string]string{
			"combined_data_1.csv": "A,B\n1,a\n",
			"combined_data_2.csv": "A,B\n2,b\n",
		})
		defer os.RemoveAll(dir)

		opt := &merger.MergeOptions{Lister: fixedOrder("combined_data_1.csv", "combined_data_2.csv"), BatchWrite: true}
		res, err := merger.MergeShards(dir, "combined_data", "*.csv", opt)
		require.NoError(tt, err)
		assert.Equal(tt, []string{"A,B", "1,a", "2,b"}, readLines(tt, res.Path))
	})
}

func TestLoadTable(t *testing.T) {
	dir := newDistDir(t, map[string]string{
		"ragged.csv": "A,B\n1\n2,b,c\n",
	})
	defer os.RemoveAll(dir)

	table, err := merger.LoadTable(filepath.Join(dir, "ragged.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, table.Header)
	assert.Equal(t, [][]string{{"1"}, {"2", "b", "c"}}, table.Rows)

	_, err = merger.LoadTable(filepath.Join(dir, "nothing.csv"))
	assert.Error(t, err)
}
