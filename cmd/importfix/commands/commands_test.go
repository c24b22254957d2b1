package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"src/app/app.ts":    "import { format } from './format';\nimport x from 'lodash';\n",
		"src/lib/format.ts": "export const format = (s: string) => s;\n",
	}
	for name, content := range files {
		full := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func TestFixPlanThenApply(t *testing.T) {
	root := writeProject(t)
	app := filepath.Join(root, "src/app/app.ts")
	planPath := filepath.Join(root, "plan.json")

	out, err := execute(t, "fix",
		"-s", filepath.Join(root, "src/app/**/*.ts"),
		"-i", filepath.Join(root, "src/**/*.{ts,tsx}"),
		"--dry-run",
		"--diff",
		"--plan-out", planPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 source code files")
	assert.Contains(t, out, "Found 2 possible imports")
	assert.Contains(t, out, "dry run")
	assert.Contains(t, out, "--- "+app)
	assert.Contains(t, out, "import { format } from '../lib/format';")
	assert.Contains(t, out, "saved to "+planPath)

	original, _ := os.ReadFile(app)
	assert.Contains(t, string(original), "'./format'", "dry run must not write")

	data, err := os.ReadFile(planPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "plan.json is JSON")

	out, err = execute(t, "apply", planPath)
	require.NoError(t, err)
	assert.Contains(t, out, "files")

	updated, _ := os.ReadFile(app)
	assert.Equal(t, "import { format } from '../lib/format';\nimport x from 'lodash';\n", string(updated))
}

func TestProbeJSON(t *testing.T) {
	root := writeProject(t)

	out, err := execute(t, "probe",
		filepath.Join(root, "src/app/app.ts"), "./format",
		"-i", filepath.Join(root, "src/**/*.ts"),
		"--json",
	)
	require.NoError(t, err)

	var result ProbeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Probes, 14)
	assert.Equal(t, filepath.Join(root, "src/app/format.ts"), result.Probes[0])
	assert.Empty(t, result.Hit)
	assert.Equal(t, "resolved", result.Status)
	assert.Equal(t, "../lib/format.ts", result.Path)
}

func TestProbeRejectsBareSpecifier(t *testing.T) {
	_, err := execute(t, "probe", "src/app.ts", "react")
	assert.Error(t, err)
}

func TestFixDiffRequiresDryRun(t *testing.T) {
	root := writeProject(t)
	_, err := execute(t, "fix",
		"-s", filepath.Join(root, "src/app/**/*.ts"),
		"-i", filepath.Join(root, "src/**/*.ts"),
		"--dry-run=false",
		"--diff",
	)
	assert.ErrorContains(t, err, "--diff requires --dry-run")
}

func TestProbeDottedNameIntact(t *testing.T) {
	root := writeProject(t)
	service := filepath.Join(root, "src/app/user.service.ts")
	require.NoError(t, os.WriteFile(service, []byte("export {}\n"), 0644))

	out, err := execute(t, "probe",
		filepath.Join(root, "src/app/app.ts"), "./user.service",
		"-i", filepath.Join(root, "src/**/*.ts"),
		"--json",
	)
	require.NoError(t, err)

	var result ProbeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, service, result.Probes[0])
	assert.Equal(t, service, result.Hit)
	assert.Equal(t, "intact", result.Status)
	assert.Empty(t, result.Path)
}
