package gallerydl_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"szurutool/internal/services/gallerydl"
	"szurutool/internal/testsupport"
)

func TestDownloadRunsBinary(t *testing.T) {
	stub, argsFile := testsupport.StubDownloader(t, 0)

	var out bytes.Buffer
	cli := gallerydl.NewCLI(gallerydl.WithBinary(stub), gallerydl.WithOutput(&out, &out))

	err := cli.Download(context.Background(), gallerydl.Request{
		URLs:        []string{"https://example.com/post/1"},
		DownloadDir: t.TempDir(),
		Range:       ":10000",
	})
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	recorded, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	args := strings.Split(strings.TrimSpace(string(recorded)), "\n")
	if !contains(args, "--write-metadata") {
		t.Fatalf("stub did not receive expected args: %v", args)
	}
	if args[len(args)-1] != "https://example.com/post/1" {
		t.Fatalf("urls must come last, got %v", args)
	}
}

func TestDownloadReportsFailure(t *testing.T) {
	stub, _ := testsupport.StubDownloader(t, 3)

	cli := gallerydl.NewCLI(gallerydl.WithBinary(stub), gallerydl.WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	err := cli.Download(context.Background(), gallerydl.Request{
		URLs:        []string{"https://example.com/post/1"},
		DownloadDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error when downloader exits non-zero")
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
