package fixer

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/importfix/internal/log"
	"github.com/l3aro/importfix/internal/scanner"
	"github.com/l3aro/importfix/pkg/plan"
	"github.com/l3aro/importfix/pkg/resolve"
	"github.com/l3aro/importfix/pkg/types"
)

type project struct {
	root string
}

func newProject(t *testing.T, files map[string]string) *project {
	t.Helper()
	p := &project{root: t.TempDir()}
	for name, content := range files {
		full := filepath.Join(p.root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return p
}

func (p *project) path(name string) string {
	return filepath.Join(p.root, name)
}

func (p *project) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(p.path(name))
	require.NoError(t, err)
	return string(data)
}

func (p *project) universe(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, p.path(n))
	}
	return out
}

const appSource = `import { format } from './format';
import Button from "./Button";
import { api } from '../api/client';
import React from 'react';
import missing from './nowhere';
import broken from './dir/';
import raw from './old/logo.svg?raw';

export const app = () => format(api);
`

func newTestProject(t *testing.T) *project {
	return newProject(t, map[string]string{
		"src/app/app.ts":                appSource,
		"src/app/client-side.ts":        "export {}",
		"src/lib/format.ts":             "export const format = (x) => x;",
		"src/ui/Button/index.tsx":       "export default () => null;",
		"src/ui/Button.stories.tsx":     "export {}",
		"src/api/client.ts":             "export const api = {};",
		"src/assets/logo.svg":           "<svg/>",
		"src/deep/nested/lib/format.ts": "export {}",
	})
}

func TestFixFile_RewritesBrokenImports(t *testing.T) {
	p := newTestProject(t)
	universe := p.universe(
		"src/deep/nested/lib/format.ts",
		"src/lib/format.ts",
		"src/ui/Button/index.tsx",
		"src/ui/Button.stories.tsx",
		"src/api/client.ts",
		"src/assets/logo.svg",
	)

	f := New(resolve.NewEngine(universe), nil, Options{StripExtensions: true})
	report := f.FixFile(context.Background(), p.path("src/app/app.ts"))

	require.Empty(t, report.Err)
	assert.Equal(t, 6, report.References, "react is not relative")
	assert.True(t, report.Written)

	got := p.read(t, "src/app/app.ts")
	assert.Contains(t, got, `import { format } from '../lib/format';`)
	assert.Contains(t, got, `import Button from "../ui/Button/index";`)
	assert.Contains(t, got, `import { api } from '../api/client';`)
	assert.Contains(t, got, `import React from 'react';`)
	assert.Contains(t, got, `import missing from './nowhere';`)
	assert.Contains(t, got, `import broken from './dir/';`)
	assert.Contains(t, got, `import raw from '../assets/logo.svg?raw';`)

	require.Len(t, report.Changes, 3)
	assert.Equal(t, "./format", report.Changes[0].From)
	assert.Equal(t, p.path("src/lib/format.ts"), report.Changes[0].Target)
	assert.Equal(t, 1, report.Changes[0].LineNumber)

	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "./nowhere", report.Unresolved[0].Specifier)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "./dir/", report.Failures[0].Specifier)
}

func TestFixFile_DryRunLeavesFileAlone(t *testing.T) {
	p := newTestProject(t)
	f := New(resolve.NewEngine(p.universe("src/lib/format.ts")), nil, Options{DryRun: true, StripExtensions: true})

	report := f.FixFile(context.Background(), p.path("src/app/app.ts"))

	assert.False(t, report.Written)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "../lib/format", report.Changes[0].To)
	assert.Equal(t, appSource, p.read(t, "src/app/app.ts"))

	// The recorded change can be replayed through a plan.
	pl := plan.New([]types.FileReport{report})
	results := pl.Apply(false)
	require.NoError(t, results[0].Err)
	assert.Contains(t, p.read(t, "src/app/app.ts"), `from '../lib/format';`)
}

func TestFixFile_KeepExtensions(t *testing.T) {
	p := newTestProject(t)
	f := New(resolve.NewEngine(p.universe("src/lib/format.ts")), nil, Options{DryRun: true})

	report := f.FixFile(context.Background(), p.path("src/app/app.ts"))
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "../lib/format.ts", report.Changes[0].To)
}

func TestFixFile_Failures(t *testing.T) {
	p := newProject(t, map[string]string{"src/Widget.vue": "<template></template>"})
	f := New(resolve.NewEngine(nil), nil, Options{})

	report := f.FixFile(context.Background(), p.path("src/Widget.vue"))
	assert.NotEmpty(t, report.Err)

	report = f.FixFile(context.Background(), p.path("src/missing.ts"))
	assert.NotEmpty(t, report.Err)
}

func TestRun_IsolatesFailuresAndKeepsOrder(t *testing.T) {
	p := newProject(t, map[string]string{
		"src/a.ts":      "import x from './gone/x';\n",
		"src/b.ts":      "import y from './y';\n",
		"src/lib/x.ts":  "export default 1;",
		"src/y.ts":      "export default 2;",
		"src/broken.js": "import z from './z/';\n",
	})
	sources := []string{p.path("src/a.ts"), p.path("src/missing.ts"), p.path("src/broken.js"), p.path("src/b.ts")}

	var buf bytes.Buffer
	off := false
	logger := log.New(log.LoggerConfig{Level: log.InfoLevel, Output: &buf, Color: &off})

	f := New(resolve.NewEngine(p.universe("src/lib/x.ts", "src/y.ts")), logger, Options{Concurrency: 3, StripExtensions: true})
	summary, err := f.Run(context.Background(), sources)
	require.NoError(t, err)

	require.Len(t, summary.Reports, 4)
	for i, r := range summary.Reports {
		assert.Equal(t, sources[i], r.Path)
	}
	assert.Equal(t, 4, summary.Files)
	assert.Equal(t, 1, summary.FailedFiles)
	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 3, summary.References)
	assert.Equal(t, 1, summary.Rewritten)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Unresolved)

	assert.Equal(t, "import x from './lib/x';\n", p.read(t, "src/a.ts"))
	assert.Equal(t, "import y from './y';\n", p.read(t, "src/b.ts"))

	out := buf.String()
	assert.Contains(t, out, "processing file")
	assert.Contains(t, out, "rewrote reference from=./gone/x to=./lib/x")
	assert.Contains(t, out, "could not process file")
	assert.Equal(t, int64(2), logger.Count(log.ErrorLevel))
}

func TestRun_Cancelled(t *testing.T) {
	p := newProject(t, map[string]string{"src/a.ts": "import x from './x';\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(resolve.NewEngine(nil), nil, Options{})
	summary, err := f.Run(ctx, []string{p.path("src/a.ts")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, summary)
}

// copyFixture copies a project under testdata into a temp dir.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	src := filepath.Join("..", "..", "testdata", name)
	dst := t.TempDir()
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	require.NoError(t, err)
	return dst
}

func TestRun_MovedProject(t *testing.T) {
	root := copyFixture(t, "moved")
	sc := scanner.New(scanner.Options{BaseDir: root})

	sources, err := sc.Expand("src/app/**/*.{ts,tsx}")
	require.NoError(t, err)
	require.Len(t, sources, 3)

	universe, err := sc.Expand("src/**/*.{ts,tsx,json}")
	require.NoError(t, err)

	f := New(resolve.NewEngine(universe), nil, Options{Concurrency: 2, StripExtensions: true})
	summary, err := f.Run(context.Background(), sources)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.FailedFiles)
	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 6, summary.References)
	assert.Equal(t, 4, summary.Rewritten)
	assert.Equal(t, 1, summary.Unresolved)

	main, err := os.ReadFile(filepath.Join(root, "src/app/main.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "import { formatDate } from '../shared/utils/date';")
	assert.Contains(t, string(main), "import { Button } from '../components/Button/index';")
	assert.Contains(t, string(main), "import config from '../settings/config.json';")
	assert.Contains(t, string(main), "import type { User } from './models/user';")
	assert.Contains(t, string(main), "export { api } from './api';")

	clock, err := os.ReadFile(filepath.Join(root, "src/app/widgets/clock.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(clock), `import { formatDate } from "../../shared/utils/date";`)
	assert.Contains(t, string(clock), "import React from 'react';")
}
