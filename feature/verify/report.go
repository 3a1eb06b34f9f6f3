package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"link-verifier/core/reconcile"
	"link-verifier/core/storage"

	"github.com/minio/minio-go/v7"
	"gopkg.in/yaml.v3"
)

// Report is the persisted account of one run. Only rows that need attention
// are listed.
type Report struct {
	RunID     string              `json:"run_id" yaml:"run_id"`
	Input     string              `json:"input" yaml:"input"`
	Output    string              `json:"output,omitempty" yaml:"output,omitempty"`
	CheckOnly bool                `json:"check_only" yaml:"check_only"`
	Probe     bool                `json:"probe" yaml:"probe"`
	StartRow  int                 `json:"start_row" yaml:"start_row"`
	EndRow    int                 `json:"end_row,omitempty" yaml:"end_row,omitempty"`
	StartedAt time.Time           `json:"started_at" yaml:"started_at"`
	Duration  string              `json:"duration" yaml:"duration"`
	Summary   reconcile.Summary   `json:"summary" yaml:"summary"`
	Issues    []reconcile.Outcome `json:"issues" yaml:"issues"`
}

// NewReport builds the report for a finished run.
func NewReport(req Request, summary *reconcile.Summary, started time.Time, elapsed time.Duration) *Report {
	r := &Report{
		RunID:     summary.RunID,
		Input:     req.Input,
		CheckOnly: req.Options.CheckOnly,
		Probe:     req.Probe,
		StartRow:  req.Options.StartRow,
		EndRow:    req.Options.EndRow,
		StartedAt: started.UTC(),
		Duration:  elapsed.String(),
		Summary:   *summary,
		Issues:    summary.Issues(),
	}
	if !req.Options.CheckOnly {
		r.Output = req.Output
	}
	if r.Issues == nil {
		r.Issues = []reconcile.Outcome{}
	}
	return r
}

// EncodeReport renders r in the format implied by the extension of path:
// .json, or .yaml/.yml.
func EncodeReport(path string, r *Report) ([]byte, string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), "application/json", nil
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return buf.Bytes(), "application/yaml", nil
	default:
		return nil, "", fmt.Errorf("unsupported report format %q (use .json, .yaml or .yml)", ext)
	}
}

// WriteReport encodes r and stores it at path (local path or s3://bucket/key).
func WriteReport(ctx context.Context, path string, r *Report, store storage.Client) error {
	data, contentType, err := EncodeReport(path, r)
	if err != nil {
		return err
	}

	if !storage.IsObjectURI(path) {
		return os.WriteFile(path, data, 0o644)
	}
	if store == nil {
		return fmt.Errorf("cannot write %s: object storage is not configured", path)
	}
	bucket, object, err := storage.ParseObjectURI(path)
	if err != nil {
		return err
	}
	_, err = store.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}
