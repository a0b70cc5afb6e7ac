package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lapsehq/lapse/internal/classify"
	"github.com/lapsehq/lapse/internal/domain"
	"github.com/lapsehq/lapse/internal/extract"
	"github.com/lapsehq/lapse/internal/repository"
	"github.com/lapsehq/lapse/internal/timeline"
)

const (
	// DefaultWorkers bounds concurrent classification calls. The ceiling
	// keeps the pool well under typical API rate limits.
	DefaultWorkers = 4
	maxWorkers     = 5
)

// Stats counts per-session outcomes of one run.
type Stats struct {
	Classified int // classified via the API
	Fallback   int // classified via the keyword strategy
	Cached     int // served from the cache
	Skipped    int // no extractable user request
	Errors     int // unreadable files
}

func (s Stats) String() string {
	return fmt.Sprintf("api=%d fallback=%d cached=%d skipped=%d errors=%d",
		s.Classified, s.Fallback, s.Cached, s.Skipped, s.Errors)
}

// Processed returns how many sessions made it into the dataset.
func (s Stats) Processed() int {
	return s.Classified + s.Fallback + s.Cached
}

// Result is the outcome of one pipeline run.
type Result struct {
	Sessions []timeline.ClassifiedSession
	Stats    Stats
}

// Options tune a Pipeline.
type Options struct {
	// Workers is the classification pool size. Zero means DefaultWorkers;
	// values above the ceiling are clamped.
	Workers int

	// OnResult, when set, is invoked after each session resolves.
	// Invocations are serialized.
	OnResult func(cs timeline.ClassifiedSession, fromCache bool)
}

// Pipeline drives one generate run: list transcripts, extract sessions,
// classify them against the cache, and collect the results.
type Pipeline struct {
	classifier classify.Classifier
	keyword    classify.Classifier
	cache      repository.CacheRepo
	log        *logrus.Logger
	workers    int
	onResult   func(cs timeline.ClassifiedSession, fromCache bool)
}

// New creates a Pipeline. classifier is the primary strategy; pass the
// keyword classifier when the API is disabled or has no credentials.
func New(classifier classify.Classifier, cache repository.CacheRepo, log *logrus.Logger, opts Options) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Pipeline{
		classifier: classifier,
		keyword:    classify.NewKeywordClassifier(),
		cache:      cache,
		log:        log,
		workers:    workers,
		onResult:   opts.OnResult,
	}
}

// Run processes every .md transcript under historyDir. Classification
// failures never abort the batch; cancellation does, leaving already
// cached rows behind so the next run resumes where this one stopped.
func (p *Pipeline) Run(ctx context.Context, historyDir string) (*Result, error) {
	files, err := listTranscripts(historyDir)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{"dir": historyDir, "files": len(files)}).Info("scanning history")

	var stats Stats
	sessions := make([]domain.Session, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := extract.File(filepath.Join(historyDir, name))
		if err != nil {
			if errors.Is(err, extract.ErrNoUserRequest) {
				stats.Skipped++
				p.log.WithField("file", name).Warn("no user request, skipping")
			} else {
				stats.Errors++
				p.log.WithError(err).WithField("file", name).Error("extraction failed")
			}
			continue
		}
		sessions = append(sessions, s)
	}

	classified := p.classifyAll(ctx, sessions, &stats)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Sessions: classified, Stats: stats}, nil
}

// classifyAll resolves sessions through a bounded worker pool. Workers
// share only the cache; results land at their input index so output
// order is independent of completion order.
func (p *Pipeline) classifyAll(ctx context.Context, sessions []domain.Session, stats *Stats) []timeline.ClassifiedSession {
	results := make([]*timeline.ClassifiedSession, len(sessions))

	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, p.workers)
	for i, s := range sessions {
		wg.Add(1)
		go func(i int, s domain.Session) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			c, fromCache := p.classifyOne(ctx, s)
			if c == nil {
				return
			}
			cs := timeline.ClassifiedSession{Session: s, Classification: *c}
			results[i] = &cs

			mu.Lock()
			switch {
			case fromCache:
				stats.Cached++
			case c.Source == domain.SourceOpenAI:
				stats.Classified++
			default:
				stats.Fallback++
			}
			if p.onResult != nil {
				p.onResult(cs, fromCache)
			}
			mu.Unlock()

			p.log.WithFields(logrus.Fields{
				"file":       s.Filename,
				"category":   c.Category,
				"confidence": c.Confidence,
				"source":     c.Source,
				"cached":     fromCache,
			}).Info("session classified")
		}(i, s)
	}
	wg.Wait()

	out := make([]timeline.ClassifiedSession, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// classifyOne returns the classification for one session, from the cache
// when possible. A nil classification means the run was cancelled.
func (p *Pipeline) classifyOne(ctx context.Context, s domain.Session) (*domain.Classification, bool) {
	fp := s.Fingerprint()

	cached, err := p.cache.Get(ctx, fp)
	if err == nil {
		return &cached.Classification, true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		if ctx.Err() != nil {
			return nil, false
		}
		p.log.WithError(err).WithField("file", s.Filename).Warn("cache read failed")
	}

	c, err := p.classifier.Classify(ctx, s)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false
		}
		p.log.WithError(err).WithField("file", s.Filename).Warn("classification failed, using keyword fallback")
		c, _ = p.keyword.Classify(ctx, s)
	}

	entry := &repository.CacheEntry{
		Fingerprint:    fp,
		Filename:       s.Filename,
		Classification: *c,
	}
	if err := p.cache.Put(ctx, entry); err != nil {
		p.log.WithError(err).WithField("file", s.Filename).Warn("cache write failed")
	}
	return c, false
}

func listTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading history directory: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}
