// Package logstore ingests JSON-lines logs into datasets kept in a blob
// bucket and answers a fixed set of canned queries over them.
//
// Layout inside the bucket:
//
//	datasets/<id>/part-<n>.jsonl.zst   zstd-compressed normalised rows
//	views/<table>.json                 the dataset a table currently points at
package logstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

var (
	// ErrNoRows is returned when an ingest finds nothing to store.
	ErrNoRows = errors.New("no rows to ingest")
	// ErrNoTable is returned when a table has no dataset behind it yet.
	ErrNoTable = errors.New("table has no dataset")
)

// Row is one normalised log record. Values are scalars: strings,
// json.Number, bools or nil.
type Row map[string]any

// View records which dataset a table reads from.
type View struct {
	Table     string    `json:"table"`
	DatasetID string    `json:"dataset_id"`
	Parts     []string  `json:"parts"`
	Rows      int       `json:"rows"`
	Created   time.Time `json:"created"`
}

type Store struct {
	bucket string
	table  string
	now    func() time.Time
}

// New returns a store over the bucket at bucketURL whose default table is
// table.
func New(bucketURL, table string) *Store {
	return &Store{bucket: bucketURL, table: table, now: time.Now}
}

// NewLocal returns a store backed by a directory bucket under
// <dataDir>/store, creating it if needed.
func NewLocal(dataDir, table string) (*Store, error) {
	dir, err := filepath.Abs(filepath.Join(dataDir, "store"))
	if err != nil {
		return nil, fmt.Errorf("resolve store dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(dir)}
	return New(u.String(), table), nil
}

func (s *Store) String() string { return s.bucket + "#" + s.table }

// Table returns the default table name.
func (s *Store) Table() string { return s.table }

func (s *Store) open(ctx context.Context) (*blob.Bucket, error) {
	bkt, err := blob.OpenBucket(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", s.bucket, err)
	}
	return bkt, nil
}

func viewKey(table string) string { return path.Join("views", table+".json") }

func partKey(datasetID string, n int) string {
	return path.Join("datasets", datasetID, fmt.Sprintf("part-%d.jsonl.zst", n))
}

func writePart(ctx context.Context, bkt *blob.Bucket, key string, rows []Row) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := bkt.NewWriter(ctx, key, &blob.WriterOptions{ContentType: "application/zstd"})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			cancel() // discard the partial object
		}
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(zw)
	enc.SetEscapeHTML(false)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func readPart(ctx context.Context, bkt *blob.Bucket, key string, visit func(Row) bool) error {
	r, err := bkt.NewReader(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	defer r.Close()

	zr, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", key, err)
	}
	defer zr.Close()

	dec := json.NewDecoder(zr)
	dec.UseNumber()
	for dec.More() {
		var row Row
		if err := dec.Decode(&row); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		if !visit(row) {
			return nil
		}
	}
	return nil
}

func (s *Store) writeView(ctx context.Context, bkt *blob.Bucket, v View) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return bkt.WriteAll(ctx, viewKey(v.Table), b, &blob.WriterOptions{ContentType: "application/json"})
}

// View returns the current view of table.
func (s *Store) View(ctx context.Context, table string) (View, error) {
	bkt, err := s.open(ctx)
	if err != nil {
		return View{}, err
	}
	defer bkt.Close()
	return s.readView(ctx, bkt, table)
}

func (s *Store) readView(ctx context.Context, bkt *blob.Bucket, table string) (View, error) {
	b, err := bkt.ReadAll(ctx, viewKey(table))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return View{}, fmt.Errorf("%w: %q", ErrNoTable, table)
	}
	if err != nil {
		return View{}, fmt.Errorf("read view %q: %w", table, err)
	}
	var v View
	if err := json.Unmarshal(b, &v); err != nil {
		return View{}, fmt.Errorf("decode view %q: %w", table, err)
	}
	return v, nil
}

// Scan calls visit for every row of table until visit returns false.
func (s *Store) Scan(ctx context.Context, table string, visit func(Row) bool) error {
	bkt, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer bkt.Close()

	v, err := s.readView(ctx, bkt, table)
	if err != nil {
		return err
	}
	stop := false
	for _, key := range v.Parts {
		err := readPart(ctx, bkt, key, func(r Row) bool {
			if !visit(r) {
				stop = true
			}
			return !stop
		})
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	slog.DebugContext(ctx, "scanned table", "table", table, "dataset", v.DatasetID)
	return nil
}
