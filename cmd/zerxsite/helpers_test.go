package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zerx-lab/zerxsite/internal/ogimage"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and fake browser
// ---------------------------------------------------------------------------

// fakePNG is what fakeCapturer returns for every capture.
var fakePNG = []byte("\x89PNG\r\n\x1a\nfake")

// fakeCapturer records captures instead of driving Chrome.
type fakeCapturer struct {
	mu       sync.Mutex
	captured []string
	err      error
	closed   atomic.Bool
}

func (f *fakeCapturer) CaptureFile(_ context.Context, path string) ([]byte, error) {
	page, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captured = append(f.captured, string(page))
	if f.err != nil {
		return nil, f.err
	}
	return fakePNG, nil
}

func (f *fakeCapturer) Close() error {
	f.closed.Store(true)
	return nil
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	mu         sync.Mutex
	capturers  []*fakeCapturer
	captureErr error
}

func newTestEnv() *testEnv {
	te := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: te.stdout,
		Stderr: te.stderr,
		NewCapturer: func(ogimage.BrowserOptions) ogimage.Capturer {
			te.mu.Lock()
			defer te.mu.Unlock()
			c := &fakeCapturer{err: te.captureErr}
			te.capturers = append(te.capturers, c)
			return c
		},
	}
	return te
}

// captures returns the total number of captured pages.
func (te *testEnv) captures() int {
	te.mu.Lock()
	defer te.mu.Unlock()
	n := 0
	for _, c := range te.capturers {
		c.mu.Lock()
		n += len(c.captured)
		c.mu.Unlock()
	}
	return n
}

// run invokes runMain with "zerxsite" prepended.
func (te *testEnv) run(args ...string) int {
	return runMain(append([]string{"zerxsite"}, args...), te.Environment)
}

// writeFile creates dir/name with content, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// newPostsDir creates a posts directory with two posts and one image.
func newPostsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "hello-world.md", `---
title: Hello World
description: First post
date: "2024-05-01"
tags: [go, web]
---

# Hello World

## Setup

![diagram](diagram.png)

`+"```go\nfmt.Println(\"hi\")\n```"+`
`)
	writeFile(t, dir, "diagram.png", "png-bytes")
	writeFile(t, dir, "second.md", `---
title: Second
date: "2024-06-01"
---

Body text.
`)
	writeFile(t, dir, "draft.md", `---
title: Draft
draft: true
---

Not published.
`)
	return dir
}
