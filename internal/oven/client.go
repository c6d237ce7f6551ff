package oven

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"bakeset/internal/asset"
)

// Type selects the oven bake mode passed via -t.
type Type string

const (
	// TypeFBX bakes a mesh.
	TypeFBX Type = "fbx"
	// TypeTexture bakes a texture.
	TypeTexture Type = "texture"
)

// Baker defines the behaviour the bundle pipeline needs from the baking tool.
type Baker interface {
	Bake(ctx context.Context, inputPath, outputDir string, typ Type) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithOutputSink forwards oven stdout/stderr lines to fn instead of
// discarding them.
func WithOutputSink(fn func(string)) Option {
	return func(c *Client) {
		c.onOutput = fn
	}
}

// Client wraps oven CLI interactions.
type Client struct {
	binary   string
	timeout  time.Duration
	exec     Executor
	onOutput func(string)
}

// New constructs an oven client.
func New(binary string, bakeTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("oven binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(bakeTimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BakedName returns the artifact filename oven produces for an input filename
// and bake type: "<basename>.baked.fbx" for meshes, "<basename>.texmeta.json"
// for textures.
func BakedName(filename string, typ Type) string {
	basename := asset.Basename(filename)
	if typ == TypeTexture {
		return basename + ".texmeta.json"
	}
	return basename + ".baked.fbx"
}

// Bake runs oven on inputPath writing into outputDir and returns the absolute
// path of the primary baked artifact. outputDir is created if needed.
func (c *Client) Bake(ctx context.Context, inputPath, outputDir string, typ Type) (string, error) {
	if err := c.run(ctx, inputPath, outputDir, typ); err != nil {
		return "", err
	}

	bakedPath := filepath.Join(outputDir, BakedName(filepath.Base(inputPath), typ))
	if _, err := os.Stat(bakedPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("oven produced no %s artifact for %s", typ, inputPath)
		}
		return "", fmt.Errorf("inspect baked artifact: %w", err)
	}
	return bakedPath, nil
}

// BakeAll runs oven on inputPath and returns every regular file found under
// outputDir afterwards, sorted. Mesh bakes can emit secondary artifacts
// (textures, material maps) alongside the primary one; server-set builds map
// all of them.
func (c *Client) BakeAll(ctx context.Context, inputPath, outputDir string, typ Type) ([]string, error) {
	if err := c.run(ctx, inputPath, outputDir, typ); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(outputDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("inspect bake outputs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("oven produced no output for %s", inputPath)
	}
	sort.Strings(files)
	return files, nil
}

func (c *Client) run(ctx context.Context, inputPath, outputDir string, typ Type) error {
	if outputDir == "" {
		return errors.New("output directory required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create bake output directory: %w", err)
	}

	bakeCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		bakeCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"-i", inputPath, "-o", outputDir, "-t", string(typ)}
	if err := c.exec.Run(bakeCtx, c.binary, args, c.onOutput); err != nil {
		return fmt.Errorf("oven bake %s: %w", inputPath, err)
	}
	return nil
}

// maxOutputLine bounds a single oven output line. Texture bakes can dump
// very long progress lines that overflow bufio.Scanner's default limit.
const maxOutputLine = 1024 * 1024

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanMu sync.Mutex
	var scanErr error
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxOutputLine)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			scanMu.Lock()
			if scanErr == nil {
				scanErr = err
			}
			scanMu.Unlock()
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	if scanErr != nil {
		return fmt.Errorf("read command output: %w", scanErr)
	}
	return nil
}
