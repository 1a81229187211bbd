package merger

import (
	"path/filepath"

	"github.com/m-mizutani/ratingcsv/internal"
	"github.com/m-mizutani/ratingcsv/pkg/dataset"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// MergeOptions has option values of MergeShards
type MergeOptions struct {
	// BatchWrite writes merged file once after all shards are loaded. By
	// default the whole merged table is rewritten after every shard so that
	// partial progress survives a crash, at O(n^2) I/O cost in shard count.
	BatchWrite bool

	// Lister overrides directory listing. nil means dataset.ListDir.
	Lister dataset.ListFunc
}

// MergeResult is summary of MergeShards
type MergeResult struct {
	Path   string   `json:"path"`
	Header []string `json:"header"`
	Shards []string `json:"shards"`
	Rows   int      `json:"rows"`
}

// MergedFileName returns output file name for prefix.
func MergedFileName(prefix string) string {
	return prefix + "_merged.csv"
}

// MergeShards concatenates files in dir matching prefix+ext (glob) in listing
// order into {prefix}_merged.csv in dir. The merged file itself is never used
// as a shard. Header of the first shard is used and headers of other shards are
// not validated.
func MergeShards(dir, prefix, ext string, opt *MergeOptions) (*MergeResult, error) {
	if opt == nil {
		opt = &MergeOptions{}
	}

	outName := MergedFileName(prefix)
	res := &MergeResult{Path: filepath.Join(dir, outName)}

	names, err := dataset.Glob(dir, prefix+ext, opt.Lister)
	if err != nil {
		return nil, err
	}

	merged := &Table{}
	for _, name := range names {
		if name == outName {
			continue
		}
		logger.WithField("file", name).Info("Merge: target file")

		shard, err := LoadTable(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		if merged.Header != nil && !sameHeader(merged.Header, shard.Header) {
			logger.WithFields(logrus.Fields{
				"file":     name,
				"header":   shard.Header,
				"expected": merged.Header,
			}).Warn("Merge: header mismatch, rows are concatenated by position")
		}

		merged.Append(shard)
		res.Shards = append(res.Shards, name)

		if !opt.BatchWrite {
			if err := merged.Save(res.Path); err != nil {
				return nil, err
			}
		}
	}

	if len(res.Shards) == 0 {
		logger.WithFields(logrus.Fields{"dir": dir, "pattern": prefix + ext}).Warn("Merge: no target file")
		return res, nil
	}

	if opt.BatchWrite {
		if err := merged.Save(res.Path); err != nil {
			return nil, err
		}
	}

	res.Header = merged.Header
	res.Rows = len(merged.Rows)
	logger.WithFields(logrus.Fields{
		"path":   res.Path,
		"shards": len(res.Shards),
		"rows":   res.Rows,
	}).Info("Merge: successfully merged and saved")

	return res, nil
}
