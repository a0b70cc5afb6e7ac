// Package scrape exports Cursor chat history from workspace state
// databases into markdown transcripts in the history directory, named
// and formatted so the generate pipeline can consume them directly.
package scrape

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	// ItemTable keys that hold chat JSON; these evolve across Cursor
	// releases.
	keyChatData = "workbench.panel.aichat.view.aichat.chatdata"
	keyPrompts  = "aiService.prompts"

	stateDBName  = "state.vscdb"
	exportLayout = "2006-01-02_15-04"
)

// Stats summarizes one sweep over workspaceStorage.
type Stats struct {
	Workspaces int // state.vscdb files found
	Exported   int
	Skipped    int // exports not written: unchanged since the last sweep, or empty
	Errors     int
}

func (s *Stats) String() string {
	return fmt.Sprintf("workspaces=%d exported=%d skipped=%d errors=%d",
		s.Workspaces, s.Exported, s.Skipped, s.Errors)
}

// Scraper walks a Cursor workspaceStorage tree and exports the chat
// state of every workspace it finds.
type Scraper struct {
	workspaceStorage string
	outDir           string
	log              *logrus.Logger
	now              func() time.Time
}

func New(workspaceStorage, outDir string, log *logrus.Logger) *Scraper {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Scraper{
		workspaceStorage: workspaceStorage,
		outDir:           outDir,
		log:              log,
		now:              time.Now,
	}
}

// Run performs one sweep. Databases that cannot be read are logged and
// counted, never fatal; only a missing workspace root, an unusable
// export directory, or context cancellation aborts the sweep.
func (s *Scraper) Run(ctx context.Context) (*Stats, error) {
	if _, err := os.Stat(s.workspaceStorage); err != nil {
		return nil, fmt.Errorf("workspace storage: %w", err)
	}
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	sw := &sweep{Scraper: s, batch: uuid.NewString(), stats: &Stats{}}
	sw.log = s.log.WithField("batch", sw.batch)
	sw.log.WithField("root", s.workspaceStorage).Info("starting cursor chat scrape")

	err := filepath.WalkDir(s.workspaceStorage, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			sw.log.WithError(err).Warn("skipping unreadable path")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || d.Name() != stateDBName {
			return nil
		}
		sw.stats.Workspaces++
		sw.log.WithField("db", path).Info("processing workspace database")
		if err := sw.exportDB(ctx, path); err != nil {
			sw.log.WithError(err).Error("workspace export failed")
			sw.stats.Errors++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sw.log.WithFields(logrus.Fields{
		"workspaces": sw.stats.Workspaces,
		"exported":   sw.stats.Exported,
		"skipped":    sw.stats.Skipped,
		"errors":     sw.stats.Errors,
	}).Info("scrape complete")
	return sw.stats, nil
}

// RunEvery sweeps immediately and then on every tick until the context
// is cancelled. Individual sweep failures are logged and the schedule
// keeps going.
func (s *Scraper) RunEvery(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		_, err := s.Run(ctx)
		return err
	}

	s.log.WithField("every", every.String()).Info("starting scheduled scraping")
	if _, err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.log.WithError(err).Error("scrape run failed")
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scraper stopped")
			return nil
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.log.WithError(err).Error("scrape run failed")
			}
		}
	}
}

// A sweep carries per-run state; every run gets a fresh batch ID so
// scheduled runs stay distinguishable in logs and export headers.
type sweep struct {
	*Scraper
	batch string
	log   *logrus.Entry
	stats *Stats
}

func (sw *sweep) exportDB(ctx context.Context, dbPath string) error {
	// Cursor may hold the database open; a read-only open never takes
	// write locks against it.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT key, value FROM ItemTable WHERE key IN (?, ?)`, keyChatData, keyPrompts)
	if err != nil {
		return fmt.Errorf("reading ItemTable from %s: %w", dbPath, err)
	}
	defer rows.Close()

	slug := slugify(filepath.Base(filepath.Dir(dbPath)))
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scanning ItemTable row: %w", err)
		}
		sw.exportRow(dbPath, key, slug, value)
	}
	return rows.Err()
}

func (sw *sweep) exportRow(dbPath, key, slug string, value []byte) {
	log := sw.log.WithFields(logrus.Fields{"key": key, "workspace": slug})

	if !json.Valid(value) {
		log.Warn("skipping non-JSON chat value")
		sw.stats.Errors++
		return
	}

	body := renderBody(key, value)
	if body == "" {
		log.Debug("no chat content to export")
		sw.stats.Skipped++
		return
	}

	stem := slug
	if key == keyPrompts {
		stem += "-prompts"
	}
	if sw.unchanged(stem, body) {
		log.Debug("export unchanged since last sweep")
		sw.stats.Skipped++
		return
	}

	name := sw.now().UTC().Format(exportLayout) + "Z-" + stem
	path := uniquePath(sw.outDir, name)
	header := fmt.Sprintf("<!-- scraped db=%s key=%s batch=%s -->\n\n", dbPath, key, sw.batch)
	if err := os.WriteFile(path, []byte(header+body), 0o644); err != nil {
		log.WithError(err).Error("writing export failed")
		sw.stats.Errors++
		return
	}
	log.WithField("file", path).Info("exported chat data")
	sw.stats.Exported++
}

var exportNamePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}Z-(.+)\.md$`)

// unchanged reports whether an earlier export for the same workspace
// and key already holds this body; identical content is exported once
// per change, not once per sweep.
func (sw *sweep) unchanged(stem, body string) bool {
	entries, err := os.ReadDir(sw.outDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := exportNamePattern.FindStringSubmatch(e.Name())
		if m == nil || m[1] != stem {
			continue
		}
		data, err := os.ReadFile(filepath.Join(sw.outDir, e.Name()))
		if err != nil {
			continue
		}
		if exportBody(string(data)) == body {
			return true
		}
	}
	return false
}

// exportBody strips the header comment so sweeps compare conversation
// content rather than batch metadata.
func exportBody(content string) string {
	if strings.HasPrefix(content, "<!--") {
		if i := strings.Index(content, "-->\n\n"); i >= 0 {
			return content[i+len("-->\n\n"):]
		}
	}
	return content
}

func uniquePath(dir, stem string) string {
	path := filepath.Join(dir, stem+".md")
	for n := 2; fileExists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", stem, n))
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
