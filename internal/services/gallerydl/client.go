package gallerydl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

var commandContext = exec.CommandContext

// Request describes one downloader invocation.
type Request struct {
	URLs        []string
	DownloadDir string
	Range       string
	Username    string
	Password    string
	CookiesPath string
	InputFile   string
	Verbose     bool
}

// Client defines downloader behaviour.
type Client interface {
	Download(ctx context.Context, req Request) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithOutput redirects the downloader's output streams.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *CLI) {
		if stdout != nil {
			c.stdout = stdout
		}
		if stderr != nil {
			c.stderr = stderr
		}
	}
}

// CLI wraps the gallery-dl command-line downloader.
type CLI struct {
	binary string
	stdout io.Writer
	stderr io.Writer
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "gallery-dl", stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Download runs gallery-dl to completion.
func (c *CLI) Download(ctx context.Context, req Request) error {
	args, err := buildArgs(req)
	if err != nil {
		return err
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gallery-dl: %w", err)
	}
	return nil
}

// "none" is the config placeholder for sites without an account.
func usableCredential(value string) bool {
	return value != "" && value != "none"
}

func buildArgs(req Request) ([]string, error) {
	if len(req.URLs) == 0 && req.InputFile == "" {
		return nil, errors.New("at least one URL or an input file is required")
	}
	if req.DownloadDir == "" {
		return nil, errors.New("download directory required")
	}

	var args []string
	if !req.Verbose {
		args = append(args, "-q")
	}
	args = append(args, "--write-metadata", "-D="+req.DownloadDir)
	if req.Range != "" {
		args = append(args, "--range="+req.Range)
	}
	if usableCredential(req.Username) && usableCredential(req.Password) {
		args = append(args, "--username="+req.Username, "--password="+req.Password)
	}
	if req.CookiesPath != "" {
		args = append(args, "--cookies="+req.CookiesPath)
	}
	if req.InputFile != "" {
		args = append(args, "--input-file="+req.InputFile)
	}
	args = append(args, req.URLs...)
	return args, nil
}

var _ Client = (*CLI)(nil)
