package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"szurutool/internal/importer"
	"szurutool/internal/services/gallerydl"
	"szurutool/internal/sidecar"
	"szurutool/internal/testsupport"
)

type fakeDownloader struct {
	request gallerydl.Request
	files   map[string]string // name -> sidecar JSON ("" for none)
}

func (f *fakeDownloader) Download(_ context.Context, req gallerydl.Request) error {
	f.request = req
	for name, sidecarJSON := range f.files {
		path := filepath.Join(req.DownloadDir, name)
		if err := os.WriteFile(path, []byte("content of "+name), 0o644); err != nil {
			return err
		}
		if sidecarJSON != "" {
			if err := os.WriteFile(path+".json", []byte(sidecarJSON), 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

type uploadCall struct {
	filename string
	tags     []string
	safety   string
	limits   importer.UploadLimits
}

type fakeUploader struct {
	calls       []uploadCall
	exhaustFrom int // call index from which the returned limits report exhaustion
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, filename string, meta *sidecar.Metadata, tagList []string, limits importer.UploadLimits) (int64, importer.UploadLimits, error) {
	f.calls = append(f.calls, uploadCall{filename: filename, tags: tagList, safety: meta.Safety, limits: limits})
	if len(f.calls) >= f.exhaustFrom {
		limits.SauceNAOExhausted = true
	}
	return int64(len(f.calls)), limits, nil
}

type fakeHistory struct {
	seen     map[string]bool
	recorded []string
}

func (f *fakeHistory) Seen(_ context.Context, source string) (bool, error) {
	return f.seen[source], nil
}

func (f *fakeHistory) Record(_ context.Context, source string, _ int64) error {
	f.recorded = append(f.recorded, source)
	return nil
}

func TestRunRequiresInput(t *testing.T) {
	runner, err := importer.NewRunner(testsupport.NewConfig(t), &fakeDownloader{}, importer.NewNormalizer(nil, "safe", nil), &fakeUploader{}, nil, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}
	if err := runner.Run(context.Background(), importer.Options{}); err != importer.ErrNoInput {
		t.Fatalf("err = %v", err)
	}
}

func TestRunThreadsLimitsAcrossFiles(t *testing.T) {
	downloader := &fakeDownloader{files: map[string]string{
		"a.png": `{"id":"1","rating":"s"}`,
		"b.png": `{"id":"2","rating":"e"}`,
	}}
	uploader := &fakeUploader{exhaustFrom: 1}
	runner, err := importer.NewRunner(testsupport.NewConfig(t), downloader, importer.NewNormalizer(nil, "safe", nil), uploader, nil, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	err = runner.Run(context.Background(), importer.Options{
		URLs: []string{"https://danbooru.donmai.us/posts?tags=solo"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(uploader.calls) != 2 {
		t.Fatalf("uploads = %d", len(uploader.calls))
	}
	if uploader.calls[0].limits.SauceNAOExhausted {
		t.Fatal("first call should start with a fresh quota")
	}
	if !uploader.calls[1].limits.SauceNAOExhausted {
		t.Fatal("second call must see the exhausted flag from the first")
	}
}

func TestRunSkipsSidecarAndLayerFiles(t *testing.T) {
	downloader := &fakeDownloader{files: map[string]string{
		"a.png":      `{"id":"1","rating":"s"}`,
		"notes.txt":  "",
		"layers.psd": "",
	}}
	uploader := &fakeUploader{exhaustFrom: 99}
	runner, err := importer.NewRunner(testsupport.NewConfig(t), downloader, importer.NewNormalizer(nil, "safe", nil), uploader, nil, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	if err := runner.Run(context.Background(), importer.Options{URLs: []string{"https://yande.re/post"}}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// Sidecars and PSD sources are skipped; text posts are real content.
	if len(uploader.calls) != 2 || uploader.calls[0].filename != "a.png" || uploader.calls[1].filename != "notes.txt" {
		t.Fatalf("calls = %+v", uploader.calls)
	}
	if uploader.calls[0].safety != "safe" {
		t.Fatalf("safety = %q", uploader.calls[0].safety)
	}
}

func TestRunPassesCredentialsAndRange(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Sankaku.Username = "user"
	cfg.Sankaku.Password = "pass"
	downloader := &fakeDownloader{}
	runner, err := importer.NewRunner(cfg, downloader, importer.NewNormalizer(nil, "safe", nil), &fakeUploader{exhaustFrom: 99}, nil, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	err = runner.Run(context.Background(), importer.Options{
		URLs:  []string{"https://chan.sankakucomplex.com/?tags=solo"},
		Range: ":5",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if downloader.request.Username != "user" || downloader.request.Password != "pass" {
		t.Fatalf("credentials not threaded: %+v", downloader.request)
	}
	if downloader.request.Range != ":5" {
		t.Fatalf("range = %q", downloader.request.Range)
	}
}

func TestRunSkipsAlreadyImportedSources(t *testing.T) {
	downloader := &fakeDownloader{files: map[string]string{
		"a.png": `{"id":"10","rating":"s"}`,
	}}
	history := &fakeHistory{seen: map[string]bool{
		"https://danbooru.donmai.us/posts/10": true,
	}}
	uploader := &fakeUploader{exhaustFrom: 99}
	runner, err := importer.NewRunner(testsupport.NewConfig(t), downloader, importer.NewNormalizer(nil, "safe", nil), uploader, history, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	err = runner.Run(context.Background(), importer.Options{
		URLs: []string{"https://danbooru.donmai.us/posts?tags=solo"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(uploader.calls) != 0 {
		t.Fatalf("seen source should be skipped, got %+v", uploader.calls)
	}
	if len(history.recorded) != 0 {
		t.Fatalf("skipped source must not be re-recorded, got %v", history.recorded)
	}
}

func TestRunRecordsImportedSources(t *testing.T) {
	downloader := &fakeDownloader{files: map[string]string{
		"a.png": `{"id":"11","rating":"s"}`,
	}}
	history := &fakeHistory{seen: map[string]bool{}}
	runner, err := importer.NewRunner(testsupport.NewConfig(t), downloader, importer.NewNormalizer(nil, "safe", nil), &fakeUploader{exhaustFrom: 99}, history, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	err = runner.Run(context.Background(), importer.Options{
		URLs: []string{"https://danbooru.donmai.us/posts?tags=solo"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(history.recorded) != 1 || history.recorded[0] != "https://danbooru.donmai.us/posts/11" {
		t.Fatalf("recorded = %v", history.recorded)
	}
}

func TestRunCleansDownloadDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	downloader := &fakeDownloader{files: map[string]string{"a.png": ""}}
	runner, err := importer.NewRunner(cfg, downloader, importer.NewNormalizer(nil, "safe", nil), &fakeUploader{exhaustFrom: 99}, nil, nil)
	if err != nil {
		t.Fatalf("NewRunner returned error: %v", err)
	}

	if err := runner.Run(context.Background(), importer.Options{URLs: []string{"https://example.org/x"}}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	entries, err := os.ReadDir(cfg.Import.TmpDir)
	if err != nil {
		t.Fatalf("read tmp dir: %v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			t.Fatalf("download directory %q not removed", entry.Name())
		}
	}
}
