package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"link-verifier/core/storage"

	"github.com/minio/minio-go/v7"
)

// Writer writes rows to a CSV destination with a fixed column order.
// The header is written once when the Writer is created.
type Writer struct {
	csv     *csv.Writer
	columns []string
	finish  func() error
	closed  bool
}

// NewWriter writes the header for columns to w and returns a Writer.
// The caller keeps ownership of w.
func NewWriter(w io.Writer, columns []string) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Writer{csv: cw, columns: cols}, nil
}

// Create creates a table at location, which is either a local path or an
// s3://bucket/key object. Objects are buffered in memory and uploaded on Close.
func Create(ctx context.Context, location string, columns []string, store storage.Client) (*Writer, error) {
	if storage.IsObjectURI(location) {
		if store == nil {
			return nil, ErrNoStorage
		}
		bucket, object, err := storage.ParseObjectURI(location)
		if err != nil {
			return nil, err
		}
		exists, err := store.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket existence: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("bucket %s does not exist", bucket)
		}

		buf := &bytes.Buffer{}
		w, err := NewWriter(buf, columns)
		if err != nil {
			return nil, err
		}
		w.finish = func() error {
			_, err := store.PutObject(ctx, bucket, object, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
				ContentType: "text/csv",
			})
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", location, err)
			}
			return nil
		}
		return w, nil
	}

	f, err := os.Create(location)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", location, err)
	}
	w, err := NewWriter(f, columns)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.finish = f.Close
	return w, nil
}

// Columns returns the column order of the output.
func (w *Writer) Columns() []string {
	out := make([]string, len(w.columns))
	copy(out, w.columns)
	return out
}

// Write writes row laid out along the writer's columns.
func (w *Writer) Write(row Row) error {
	if w.closed {
		return fmt.Errorf("write on closed table")
	}
	if err := w.csv.Write(row.Record(w.columns)); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes buffered rows and releases the destination. Calling Close
// more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.csv.Flush()
	flushErr := w.csv.Error()
	if w.finish != nil {
		if err := w.finish(); err != nil {
			return err
		}
	}
	return flushErr
}
