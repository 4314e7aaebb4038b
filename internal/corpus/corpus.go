// Package corpus reads the raw clause feed and owns the JSON batch files on
// disk. Batch serialization is deterministic: loading and saving a batch
// without modifying it reproduces the file byte for byte.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insurdata/clausekb/internal/model"
)

// fieldSeparator delimits the five columns of one raw clause line.
const fieldSeparator = "|||"

// ReadRawClauses parses the line-delimited clause feed. Comment lines,
// column headers, code fences, and blank lines are skipped silently;
// malformed data lines are logged and skipped so one bad row never sinks a
// batch.
func ReadRawClauses(path string) ([]model.RawClause, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "corpus: open raw clause file")
	}
	defer f.Close()

	var out []model.RawClause
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "```") || strings.Contains(line, "序号范围") {
			continue
		}
		fields := strings.Split(line, fieldSeparator)
		if len(fields) != 5 {
			zap.L().Warn("skipping malformed clause line",
				zap.String("file", path),
				zap.Int("line", lineNo),
				zap.Int("fields", len(fields)),
			)
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil || seq <= 0 {
			zap.L().Warn("skipping clause line with invalid sequence id",
				zap.String("file", path),
				zap.Int("line", lineNo),
				zap.String("sequence", fields[0]),
			)
			continue
		}
		out = append(out, model.RawClause{
			SequenceID:       seq,
			PolicyDocumentID: strings.TrimSpace(fields[1]),
			CoverageType:     strings.TrimSpace(fields[2]),
			CoverageName:     strings.TrimSpace(fields[3]),
			ClauseText:       strings.TrimSpace(fields[4]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "corpus: scan raw clause file")
	}
	return out, nil
}

// LoadBatch reads one batch file.
func LoadBatch(path string) (model.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Batch{}, eris.Wrap(err, "corpus: read batch file")
	}
	var b model.Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return model.Batch{}, eris.Wrapf(err, "corpus: parse batch file %s", filepath.Base(path))
	}
	return b, nil
}

// SaveBatch writes a batch with the canonical two-space indentation and a
// trailing newline. Encoding is stable, so an unmodified load/save round
// trip leaves the file untouched.
func SaveBatch(path string, b model.Batch) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return eris.Wrap(err, "corpus: encode batch")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "corpus: write batch file")
	}
	return nil
}

// Loaded pairs a batch with the file it came from.
type Loaded struct {
	Path  string
	Batch model.Batch
}

// LoadGlob loads every batch matching the pattern concurrently and returns
// them in path order.
func LoadGlob(pattern string) ([]Loaded, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, eris.Wrap(err, "corpus: bad batch glob")
	}
	sort.Strings(paths)

	out := make([]Loaded, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			b, err := LoadBatch(path)
			if err != nil {
				return err
			}
			out[i] = Loaded{Path: path, Batch: b}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge combines batches into one, sorted by sequence id. A sequence id
// appearing in two batches is a corpus integrity violation and fails the
// merge outright.
func Merge(batchID int, batches []model.Batch) (model.Batch, error) {
	var cases []model.Case
	seen := make(map[int]int)
	for _, b := range batches {
		for _, c := range b.Cases {
			if prev, dup := seen[c.SequenceID]; dup {
				return model.Batch{}, eris.New(fmt.Sprintf(
					"corpus: sequence id %d appears in both batch %d and batch %d", c.SequenceID, prev, b.BatchID))
			}
			seen[c.SequenceID] = b.BatchID
			cases = append(cases, c)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].SequenceID < cases[j].SequenceID })

	merged := model.Batch{BatchID: batchID, TotalCases: len(cases), Cases: cases}
	if len(cases) > 0 {
		merged.SequenceRange = fmt.Sprintf("%d-%d", cases[0].SequenceID, cases[len(cases)-1].SequenceID)
	}
	return merged, nil
}

// Pending lists the raw clauses not yet present in any loaded batch, in feed
// order.
func Pending(raws []model.RawClause, batches []model.Batch) []model.RawClause {
	done := make(map[int]struct{})
	for _, b := range batches {
		for _, c := range b.Cases {
			done[c.SequenceID] = struct{}{}
		}
	}
	var out []model.RawClause
	for _, r := range raws {
		if _, ok := done[r.SequenceID]; !ok {
			out = append(out, r)
		}
	}
	return out
}
