package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/catalog"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/fetch"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/page"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/product"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/scheduler"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/translate"
)

var idsFile string

// newFetchCmd creates the 'fetch' subcommand. Identifiers come from
// the arguments, from --ids-file, or from an interactive prompt when
// neither is given.
func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [id...]",
		Short: "Fetches the given products' images and descriptions",
		RunE:  runFetchCommand,
	}
	cmd.Flags().StringVar(&idsFile, "ids-file", "", "file with one product id per line")
	return cmd
}

func runFetchCommand(cmd *cobra.Command, args []string) error {
	ids, err := collectIDs(args)
	if err != nil {
		return err
	}
	ids = catalog.DedupeIDs(ids)
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no product ids given, nothing to do")
		return nil
	}

	sched, err := buildScheduler()
	if err != nil {
		return err
	}

	results := sched.Run(cmd.Context(), ids)

	failed := 0
	for _, res := range results {
		if res.Outcome != fetch.OutcomeOK {
			failed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "done: %d products processed, %d failed; see %s\n",
		len(results), failed, cfg.Logging.File)
	return nil
}

func collectIDs(args []string) ([]catalog.ProductID, error) {
	if idsFile != "" {
		return readIDsFile(idsFile)
	}
	if len(args) > 0 {
		ids := make([]catalog.ProductID, 0, len(args))
		for _, arg := range args {
			id := catalog.ProductID(arg)
			if !id.Valid() {
				return nil, fmt.Errorf("invalid product id %q", arg)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return promptIDs(os.Stdin, os.Stdout), nil
}

func buildScheduler() (*scheduler.Scheduler, error) {
	client, err := fetch.NewClient(fetch.ClientOptions{
		UserAgent:       cfg.HTTP.UserAgent,
		MaxConns:        cfg.HTTP.MaxConns,
		MaxConnsPerHost: cfg.HTTP.MaxConnsPerHost,
		ConnectTimeout:  cfg.ConnectTimeout(),
		RequestTimeout:  cfg.RequestTimeout(),
		IdleConnTTL:     cfg.IdleConnTTL(),
	})
	if err != nil {
		return nil, fmt.Errorf("init http client: %w", err)
	}

	metrics := fetch.NewMetrics()
	sem := semaphore.NewWeighted(int64(cfg.Download.Concurrency))

	pageFetcher := fetch.NewPageFetcher(
		client,
		fetch.NewExponentialRetryPolicy(cfg.Download.MaxRetries, cfg.PageBackoffUnit(), cfg.PageBackoffOffset()),
		nil,
		metrics,
		logger.Named("page"),
	)
	downloader := fetch.NewAssetDownloader(
		client,
		fetch.NewLinearRetryPolicy(cfg.Download.MaxRetries, cfg.ImageBackoffIncrement()),
		nil,
		sem,
		metrics,
		logger.Named("image"),
	)
	translator := translate.New(
		translate.NewGoogleProvider(client, cfg.Translate.SourceLang, cfg.Translate.TargetLang),
		metrics,
		logger.Named("translate"),
	)

	extractor := page.NewExtractor()
	orch := product.New(
		product.Config{
			Origin:     cfg.Site.Origin,
			OutputRoot: cfg.Site.OutputDir,
			SlideMin:   cfg.Site.SlideMin,
			SlideMax:   cfg.Site.SlideMax,
			SourceLang: cfg.Translate.SourceLang,
			TargetLang: cfg.Translate.TargetLang,
		},
		pageFetcher,
		downloader,
		translator,
		extractor,
		extractor,
		logger.Named("product"),
	)

	return scheduler.New(cfg.Site.Origin, cfg.Site.WarmUp, client, orch, logger.Named("scheduler")), nil
}
