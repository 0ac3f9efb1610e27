package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"szurutool/internal/config"
	"szurutool/internal/services/gallerydl"
	"szurutool/internal/sidecar"
	"szurutool/internal/sites"
)

// ErrNoInput reports that neither URLs nor an input file were supplied.
var ErrNoInput = errors.New("no urls or input file provided")

// ErrImportRunning reports that another import holds the run lock.
var ErrImportRunning = errors.New("another import is already running")

// HistoryStore records which sources a previous run already imported.
type HistoryStore interface {
	Seen(ctx context.Context, source string) (bool, error)
	Record(ctx context.Context, source string, postID int64) error
}

// Options are the per-run inputs of the import pipeline.
type Options struct {
	URLs        []string
	InputFile   string
	CookiesPath string
	Range       string
	Verbose     bool
}

// Runner executes the import pipeline end to end.
type Runner struct {
	cfg        *config.Config
	downloader gallerydl.Client
	normalizer *Normalizer
	uploader   Uploader
	history    HistoryStore
	logger     *slog.Logger

	// OnProgress, when set, is called after each file with the number of
	// files handled so far and the total.
	OnProgress func(done, total int)
}

// NewRunner wires an import pipeline. The history store may be nil.
func NewRunner(cfg *config.Config, downloader gallerydl.Client, normalizer *Normalizer, uploader Uploader, history HistoryStore, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if downloader == nil {
		return nil, errors.New("downloader required")
	}
	if normalizer == nil {
		return nil, errors.New("normalizer required")
	}
	if uploader == nil {
		return nil, errors.New("uploader required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:        cfg,
		downloader: downloader,
		normalizer: normalizer,
		uploader:   uploader,
		history:    history,
		logger:     logger,
	}, nil
}

// Run downloads the requested URLs and uploads every produced file. Files
// that fail to upload are logged and skipped; the run continues.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if len(opts.URLs) == 0 && strings.TrimSpace(opts.InputFile) == "" {
		return ErrNoInput
	}

	logger := r.logger.With("run_id", uuid.NewString())

	if err := r.cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(r.cfg.Import.TmpDir, "import.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire import lock: %w", err)
	}
	if !locked {
		return ErrImportRunning
	}
	defer func() { _ = lock.Unlock() }()

	downloadDir := filepath.Join(r.cfg.Import.TmpDir, time.Now().Format("20060102-150405"))
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}
	// Best effort; abnormal termination can leave the directory behind.
	defer os.RemoveAll(downloadDir)

	site, known := sites.Detect(opts.URLs)
	if known {
		logger.Info("detected source site", "site", string(site))
	} else {
		logger.Info("no known source site matched, importing without credentials")
	}
	username, password := r.cfg.SiteCredentials(site)

	selector := opts.Range
	if selector == "" {
		selector = r.cfg.Import.DefaultRange
	}

	downloadCtx := ctx
	if r.cfg.Downloader.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		downloadCtx, cancel = context.WithTimeout(ctx, time.Duration(r.cfg.Downloader.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	if err := r.downloader.Download(downloadCtx, gallerydl.Request{
		URLs:        opts.URLs,
		DownloadDir: downloadDir,
		Range:       selector,
		Username:    username,
		Password:    password,
		CookiesPath: opts.CookiesPath,
		InputFile:   opts.InputFile,
		Verbose:     opts.Verbose,
	}); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	files, err := collectFiles(downloadDir)
	if err != nil {
		return err
	}
	logger.Info("download finished", "files", len(files))

	limits := UploadLimits{}
	for index, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		limits = r.importFile(ctx, logger, site, path, limits)
		if r.OnProgress != nil {
			r.OnProgress(index+1, len(files))
		}
	}
	return nil
}

// importFile handles one downloaded file. Failures are logged so the rest
// of the run proceeds; each file is independent.
func (r *Runner) importFile(ctx context.Context, logger *slog.Logger, site sites.Site, path string, limits UploadLimits) UploadLimits {
	filename := filepath.Base(path)

	meta, err := sidecar.Load(path + ".json")
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("sidecar unreadable, importing without metadata", "file", filename, "error", err)
		}
		meta = &sidecar.Metadata{}
	}
	meta.Site = string(site)
	meta.Source = sidecar.SourceURL(site, meta)
	tagList := r.normalizer.SetTags(ctx, site, meta)

	if r.history != nil && meta.Source != "" {
		seen, err := r.history.Seen(ctx, meta.Source)
		if err != nil {
			logger.Warn("history lookup failed", "source", meta.Source, "error", err)
		} else if seen {
			logger.Info("skipping previously imported source", "source", meta.Source)
			return limits
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read downloaded file failed", "file", filename, "error", err)
		return limits
	}

	postID, limits, err := r.uploader.Upload(ctx, content, filename, meta, tagList, limits)
	if err != nil {
		logger.Error("upload failed", "file", filename, "error", err)
		return limits
	}
	logger.Info("imported file", "file", filename, "post_id", postID, "safety", meta.Safety, "tags", len(tagList))

	if r.history != nil && meta.Source != "" {
		if err := r.history.Record(ctx, meta.Source, postID); err != nil {
			logger.Warn("history record failed", "source", meta.Source, "error", err)
		}
	}
	return limits
}

// collectFiles lists the downloaded posts, excluding sidecar files and
// layered source files szurubooru cannot host.
func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".psd":
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan download directory: %w", err)
	}
	return files, nil
}
