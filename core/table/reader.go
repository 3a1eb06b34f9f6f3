package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"link-verifier/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrMissingHeader is returned when the input has no header record.
var ErrMissingHeader = errors.New("table has no header row")

// ErrNoStorage is returned when an s3:// location is used without a storage client.
var ErrNoStorage = errors.New("object storage is not configured")

const bom = "\ufeff"

// Reader streams rows from a header-bearing CSV source.
type Reader struct {
	csv     *csv.Reader
	closer  io.Closer
	columns []string
	closed  bool
}

// NewReader reads the header from r and returns a Reader positioned at the
// first data record. The caller keeps ownership of r.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	return &Reader{csv: cr, columns: header}, nil
}

// Open opens a table at location, which is either a local path or an
// s3://bucket/key object. store may be nil for local paths.
func Open(ctx context.Context, location string, store storage.Client) (*Reader, error) {
	var rc io.ReadCloser
	if storage.IsObjectURI(location) {
		if store == nil {
			return nil, ErrNoStorage
		}
		bucket, object, err := storage.ParseObjectURI(location)
		if err != nil {
			return nil, err
		}
		rc, err = store.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
		}
	} else {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		rc = f
	}

	r, err := NewReader(rc)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	r.closer = rc
	return r, nil
}

// Columns returns the header of the table.
func (r *Reader) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Next returns the next row, or io.EOF when the table is exhausted.
func (r *Reader) Next() (Row, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("failed to read row: %w", err)
	}
	return NewRow(r.columns, rec), nil
}

// Close releases the underlying source. Calling Close more than once is a no-op.
func (r *Reader) Close() error {
	if r.closed || r.closer == nil {
		return nil
	}
	r.closed = true
	return r.closer.Close()
}
