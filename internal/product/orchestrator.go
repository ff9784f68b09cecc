// Package product sequences one product's pipeline: fetch the page,
// extract and translate the description, resolve and download the
// slide images. A product's failure never reaches its siblings.
package product

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/catalog"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/fetch"
	"github.com/nguyenthanhphatdeveloper/imagecoleman/internal/page"
)

// PageFetcher retrieves one page body with a terminal outcome.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, fetch.Outcome, error)
}

// Downloader fetches one binary resource into a destination path.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (catalog.SlideStatus, error)
}

// LineTranslator translates a batch of lines, preserving order.
type LineTranslator interface {
	TranslateAll(ctx context.Context, lines []string) []string
}

// Config carries the per-run knobs the orchestrator needs.
type Config struct {
	Origin     string
	OutputRoot string
	SlideMin   int
	SlideMax   int
	SourceLang string
	TargetLang string
}

// Result summarizes one product's run for the end-of-run report.
type Result struct {
	ID      catalog.ProductID
	Outcome fetch.Outcome
	Lines   int
	Slides  []catalog.ImageSlide
}

// Orchestrator runs the per-product pipeline.
type Orchestrator struct {
	cfg        Config
	fetcher    PageFetcher
	downloader Downloader
	translator LineTranslator
	extractor  page.DescriptionExtractor
	resolver   page.ImageResolver
	logger     *zap.Logger
}

// New constructs an Orchestrator.
func New(
	cfg Config,
	fetcher PageFetcher,
	downloader Downloader,
	translator LineTranslator,
	extractor page.DescriptionExtractor,
	resolver page.ImageResolver,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		fetcher:    fetcher,
		downloader: downloader,
		translator: translator,
		extractor:  extractor,
		resolver:   resolver,
		logger:     logger,
	}
}

// Process runs the full pipeline for one identifier. It never returns
// an error for per-item failures; the Result carries the terminal
// outcome instead.
func (o *Orchestrator) Process(ctx context.Context, id catalog.ProductID) Result {
	logger := o.logger.With(zap.String("product_id", id.String()))
	result := Result{ID: id}

	body, outcome, err := o.fetcher.Fetch(ctx, id.PageURL(o.cfg.Origin))
	result.Outcome = outcome
	if outcome != fetch.OutcomeOK {
		logger.Error("product page unavailable",
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
		return result
	}

	doc, err := page.Parse(body)
	if err != nil {
		logger.Error("product page unparsable", zap.Error(err))
		result.Outcome = fetch.OutcomeTransient
		return result
	}

	prod := catalog.Product{ID: id, OutDir: o.outDir(id)}
	if err := os.MkdirAll(prod.OutDir, 0o750); err != nil {
		logger.Error("create product directory failed", zap.String("dir", prod.OutDir), zap.Error(err))
		result.Outcome = fetch.OutcomeTransient
		return result
	}

	result.Lines = o.saveDescriptions(ctx, doc, prod, logger)
	result.Slides = o.downloadImages(ctx, doc, prod, logger)
	return result
}

func (o *Orchestrator) outDir(id catalog.ProductID) string {
	if o.cfg.OutputRoot == "" {
		return id.String()
	}
	return filepath.Join(o.cfg.OutputRoot, id.String())
}

// saveDescriptions writes the source artifact, fans out the
// translation, and writes the translated artifact. A missing or empty
// description list warns and leaves imaging untouched. Each artifact is
// one single write of the complete joined text.
func (o *Orchestrator) saveDescriptions(ctx context.Context, doc *page.Document, prod catalog.Product, logger *zap.Logger) int {
	lines := o.extractor.DescriptionLines(doc)
	if len(lines) == 0 {
		logger.Warn("no description lines found")
		return 0
	}

	srcPath := prod.SourcePath(o.cfg.SourceLang)
	if err := os.WriteFile(srcPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		logger.Error("write source description failed", zap.String("path", srcPath), zap.Error(err))
		return 0
	}

	translated := o.translator.TranslateAll(ctx, lines)
	dstPath := prod.SourcePath(o.cfg.TargetLang)
	if err := os.WriteFile(dstPath, []byte(strings.Join(translated, "\n")), 0o644); err != nil {
		logger.Error("write translated description failed", zap.String("path", dstPath), zap.Error(err))
		return len(lines)
	}

	logger.Info("descriptions saved", zap.Int("lines", len(lines)))
	return len(lines)
}

// downloadImages resolves every slide in the configured range and
// launches all downloads concurrently. A slide with no resolvable image
// is dropped with a warning; a slide's failure does not cancel its
// siblings.
func (o *Orchestrator) downloadImages(ctx context.Context, doc *page.Document, prod catalog.Product, logger *zap.Logger) []catalog.ImageSlide {
	refs := o.resolver.SlideRefs(doc, o.cfg.SlideMin, o.cfg.SlideMax)
	present := make(map[int]struct{}, len(refs))
	for _, ref := range refs {
		present[ref.Slide] = struct{}{}
	}
	for slide := o.cfg.SlideMin; slide <= o.cfg.SlideMax; slide++ {
		if _, ok := present[slide]; !ok {
			logger.Warn("slide has no image", zap.Int("slide", slide))
		}
	}

	slides := make([]catalog.ImageSlide, 0, len(refs))
	for _, ref := range refs {
		resolved, err := page.ResolveImageURL(o.cfg.Origin, ref.Src)
		if err != nil {
			logger.Warn("slide image src unresolvable",
				zap.Int("slide", ref.Slide),
				zap.String("src", ref.Src),
				zap.Error(err),
			)
			continue
		}
		slides = append(slides, catalog.ImageSlide{
			Index: ref.Slide,
			URL:   resolved,
			Path:  prod.SlidePath(ref.Slide),
		})
	}
	if len(slides) == 0 {
		logger.Warn("no downloadable images")
		return nil
	}

	var wg sync.WaitGroup
	for i := range slides {
		wg.Add(1)
		go func(s *catalog.ImageSlide) {
			defer wg.Done()
			status, err := o.downloader.Download(ctx, s.URL, s.Path)
			s.Status = status
			if err != nil {
				logger.Error("slide download did not complete",
					zap.Int("slide", s.Index),
					zap.String("status", string(status)),
					zap.Error(err),
				)
			}
		}(&slides[i])
	}
	wg.Wait()

	logger.Info("image downloads finished", zap.Int("slides", len(slides)))
	return slides
}
