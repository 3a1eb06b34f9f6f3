package cmd

import (
	"context"
	"fmt"

	"link-verifier/core/config"
	"link-verifier/core/logger"
	"link-verifier/core/reconcile"
	"link-verifier/core/storage"
	"link-verifier/core/throttle"
	"link-verifier/feature/oembed"
	"link-verifier/feature/playback"
	"link-verifier/feature/verify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outputPath string
	reportPath string
	checkOnly  bool
	probe      bool
	startRow   int
	endRow     int
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <input>",
	Short: "Verify the YouTube links of a CSV table",
	Long: `Resolves the video of every row in range through the oEmbed endpoint and
compares its title and fingerprint with the stored ones. Stale rows are
refreshed in the output table; --check only reports them and exits 1 when
any mismatch is found. Tables may be local paths or s3://bucket/key objects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logg.Sync() }()

		req := verify.Request{
			Input:  args[0],
			Output: outputPath,
			Report: reportPath,
			Probe:  probe,
			Options: reconcile.Options{
				StartRow:  startRow,
				EndRow:    endRow,
				CheckOnly: checkOnly,
			},
		}

		svc, err := newService(cfg, logg, req)
		if err != nil {
			return err
		}

		summary, err := svc.Execute(ctx, req)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), summary.Line())
		if summary.ExitCode(checkOnly) != 0 {
			return reconcile.ErrMismatchesFound
		}
		return nil
	},
}

// newService wires the verification service from configuration. The storage
// client is only created when one of the request's locations is an object.
func newService(cfg *config.Config, logg *zap.Logger, req verify.Request) (*verify.Service, error) {
	var store storage.Client
	if usesObjectStorage(req) {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		store = client
	}

	resolver := oembed.NewClient(cfg.Resolver, nil)
	pacer := throttle.New(cfg.Throttle.Delay())

	newProber := func(ctx context.Context) (reconcile.Prober, error) {
		p, err := playback.New(ctx, cfg.Prober, logg)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	return verify.NewService(resolver, newProber, pacer, store, logg), nil
}

func usesObjectStorage(req verify.Request) bool {
	for _, location := range []string{req.Input, req.Output, req.Report} {
		if storage.IsObjectURI(location) {
			return true
		}
	}
	return false
}

func init() {
	RootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the reconciled table to this path or s3:// object")
	verifyCmd.Flags().BoolVar(&checkOnly, "check", false, "Report mismatches without writing; exit 1 if any are found")
	verifyCmd.Flags().BoolVar(&probe, "probe", false, "Load every video in a headless browser to detect playback errors")
	verifyCmd.Flags().IntVar(&startRow, "start-row", 1, "First 1-based row to process")
	verifyCmd.Flags().IntVar(&endRow, "end-row", 0, "Last 1-based row to process (0 = no limit)")
	verifyCmd.Flags().StringVar(&reportPath, "report", "", "Write a JSON or YAML run report to this path or s3:// object")
}
