package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// WriteSidecar writes a downloaded file plus its JSON sidecar into dir and
// returns the media file path.
func WriteSidecar(t *testing.T, dir, name, sidecarJSON string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("media "+name), 0o644); err != nil {
		t.Fatalf("write media file: %v", err)
	}
	if err := os.WriteFile(path+".json", []byte(sidecarJSON), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}
	return path
}

// StubDownloader writes an executable shell script that records its
// arguments to an args file and returns the script path. Tests inspect the
// args file to assert the exact invocation.
func StubDownloader(t *testing.T, exitCode int) (binary, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub downloader scripts require a POSIX shell")
	}

	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	binary = filepath.Join(dir, "gallery-dl-stub")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > " + argsFile + "\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub downloader: %v", err)
	}
	return binary, argsFile
}
