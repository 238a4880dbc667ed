package logstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const maxLine = 16 << 20

// IngestResult summarises one ingest.
type IngestResult struct {
	DatasetID string `json:"dataset_id"`
	Table     string `json:"table"`
	Rows      int    `json:"rows"`
}

// Ingest reads JSON-lines files into a new dataset and points the default
// table at it. Arguments may be file paths or doublestar glob patterns. The
// dataset id is derived from the first file's stem and the current UTC time.
func (s *Store) Ingest(ctx context.Context, paths ...string) (IngestResult, error) {
	files, err := expand(paths)
	if err != nil {
		return IngestResult{}, err
	}

	parts := make([][]Row, 0, len(files))
	total := 0
	for _, f := range files {
		rows, err := readFile(f)
		if err != nil {
			return IngestResult{}, err
		}
		if len(rows) > 0 {
			parts = append(parts, rows)
			total += len(rows)
		}
	}
	if total == 0 {
		return IngestResult{}, ErrNoRows
	}

	id := datasetID(files[0], s.now())
	bkt, err := s.open(ctx)
	if err != nil {
		return IngestResult{}, err
	}
	defer bkt.Close()

	keys := make([]string, len(parts))
	for i, rows := range parts {
		keys[i] = partKey(id, i)
		if err := writePart(ctx, bkt, keys[i], rows); err != nil {
			return IngestResult{}, fmt.Errorf("write %s: %w", keys[i], err)
		}
	}
	v := View{Table: s.table, DatasetID: id, Parts: keys, Rows: total, Created: s.now().UTC()}
	if err := s.writeView(ctx, bkt, v); err != nil {
		return IngestResult{}, fmt.Errorf("write view %q: %w", s.table, err)
	}
	slog.InfoContext(ctx, "ingested dataset", "dataset", id, "table", s.table, "rows", total, "files", len(files))
	return IngestResult{DatasetID: id, Table: s.table, Rows: total}, nil
}

func expand(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if !strings.ContainsAny(a, "*?[{") {
			out = append(out, a)
			continue
		}
		matches, err := doublestar.FilepathGlob(a, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", a, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob %q: %w", a, os.ErrNotExist)
		}
		out = append(out, matches...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	return out, nil
}

func datasetID(file string, now time.Time) string {
	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "-" + now.UTC().Format("20060102150405")
}

func readFile(name string) ([]Row, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	rows, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return rows, nil
}

// readRows parses JSON lines. Blank lines are skipped and undecodable lines
// are kept verbatim under "raw_line".
func readRows(r io.Reader) ([]Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	var rows []Row
	for sc.Scan() {
		line := strings.TrimSpace(strings.ToValidUTF8(sc.Text(), ""))
		if line == "" {
			continue
		}
		rows = append(rows, normalize(line))
	}
	return rows, sc.Err()
}

func normalize(line string) Row {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return Row{"raw_line": line}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Row{"value": scalar(v)}
	}
	row := make(Row, len(obj))
	for k, val := range obj {
		row[k] = scalar(val)
	}
	return row
}

// scalar flattens nested objects and arrays into their JSON text.
func scalar(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return compactJSON(v)
	}
	return v
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}
