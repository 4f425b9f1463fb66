package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/echotools/kocsv/internal/benchlog"
	"github.com/echotools/kocsv/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const exampleLog = `Called with: argc=7
./ko -m 1024 -n 65536 -k 8 
Numbers have 16 limbs
Total time:  75.109 ms
Time/multp:   0.001 ms
Time/round:   0.009 ms
Ops/second:   0.873 mmps
`

const exampleCSV = "m,n,k,tt,tpm,tpr,mmps\n1024,65536,8,75.109,0.001,0.009,0.873\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerateReport(t *testing.T) {
	path := writeFile(t, t.TempDir(), "run.log", exampleLog)

	var out bytes.Buffer
	require.NoError(t, generateReport(zap.NewNop(), config.ReportConfig{}, []string{path}, &out))
	assert.Equal(t, exampleCSV, out.String())
}

func TestGenerateReport_Idempotent(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.log", exampleLog),
		writeFile(t, dir, "b.log", strings.ReplaceAll(exampleLog, "-m 1024", "-m 256")),
		writeFile(t, dir, "c.log", strings.ReplaceAll(exampleLog, "-k 8", "-k 16")),
	}

	var first, second bytes.Buffer
	require.NoError(t, generateReport(zap.NewNop(), config.ReportConfig{}, paths, &first))
	require.NoError(t, generateReport(zap.NewNop(), config.ReportConfig{}, paths, &second))
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, "m,n,k,tt,tpm,tpr,mmps\n"+
		"1024,65536,16,75.109,0.001,0.009,0.873\n"+
		"1024,65536,8,75.109,0.001,0.009,0.873\n"+
		"256,65536,8,75.109,0.001,0.009,0.873\n", first.String())
}

func TestGenerateReport_NoFiles(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, generateReport(zap.NewNop(), config.ReportConfig{}, nil, &out))
	assert.Equal(t, "m,n,k,tt,tpm,tpr,mmps\n", out.String())
}

func TestGenerateReport_FailuresWriteNothing(t *testing.T) {
	tests := []struct {
		name    string
		logs    []string
		wantErr error
	}{
		{
			name:    "duplicate metric in block",
			logs:    []string{exampleLog, strings.Replace(exampleLog, "Ops/second:", "Total time: 1.0 ms\nOps/second:", 1)},
			wantErr: nil,
		},
		{
			name:    "missing metric",
			logs:    []string{strings.Replace(exampleLog, "Ops/second:   0.873 mmps\n", "", 1)},
			wantErr: benchlog.ErrMissingField,
		},
		{
			name:    "bad header",
			logs:    []string{exampleLog, "./ko -m 1 -n 2 -k 3\n"},
			wantErr: benchlog.ErrBadHeader,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			var paths []string
			for i, content := range tt.logs {
				paths = append(paths, writeFile(t, dir, string(rune('a'+i))+".log", content))
			}
			output := filepath.Join(dir, "results.csv")

			var out bytes.Buffer
			err := generateReport(zap.NewNop(), config.ReportConfig{}, paths, &out)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, out.Len())

			err = generateReport(zap.NewNop(), config.ReportConfig{Output: output}, paths, &out)
			require.Error(t, err)
			assert.NoFileExists(t, output)
		})
	}
}

func TestGenerateReport_OutputAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.log", exampleLog),
		writeFile(t, dir, "b.log", exampleLog),
	}
	rc := config.ReportConfig{
		Output:      filepath.Join(dir, "results.csv"),
		MetricsFile: filepath.Join(dir, "kocsv.prom"),
	}

	var out bytes.Buffer
	require.NoError(t, generateReport(zap.NewNop(), rc, paths, &out))
	assert.Zero(t, out.Len())

	data, err := os.ReadFile(rc.Output)
	require.NoError(t, err)
	assert.Equal(t, exampleCSV, string(data))

	prom, err := os.ReadFile(rc.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "kocsv_files_processed_total 2")
	assert.Contains(t, string(prom), "kocsv_experiments_overwritten_total 1")
	assert.Contains(t, string(prom), "kocsv_report_rows 1")
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.log", exampleLog)
	output := filepath.Join(dir, "out", "results.csv")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--log-level", "error", "-o", output, path})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, exampleCSV, string(data))
	assert.Zero(t, stdout.Len())
}

func TestGenerateReport_MetricsFailureKeepsReport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.log", exampleLog)
	blocker := writeFile(t, dir, "blocker", "")
	rc := config.ReportConfig{
		Output:      filepath.Join(dir, "results.csv"),
		MetricsFile: filepath.Join(blocker, "kocsv.prom"),
	}

	require.NoError(t, generateReport(zap.NewNop(), rc, []string{path}, &bytes.Buffer{}))

	data, err := os.ReadFile(rc.Output)
	require.NoError(t, err)
	assert.Equal(t, exampleCSV, string(data))
}

func TestGenerateReport_FailedRunCreatesNoDirectories(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.log", "garbage\n")
	rc := config.ReportConfig{
		Output:      filepath.Join(dir, "out", "results.csv"),
		MetricsFile: filepath.Join(dir, "metrics", "kocsv.prom"),
	}

	err := generateReport(zap.NewNop(), rc, []string{path}, &bytes.Buffer{})
	require.ErrorIs(t, err, benchlog.ErrBadHeader)
	assert.NoDirExists(t, filepath.Join(dir, "out"))
	assert.NoDirExists(t, filepath.Join(dir, "metrics"))
}

func TestGenerateReport_CreatesOutputDirectories(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.log", exampleLog)
	rc := config.ReportConfig{
		Output:      filepath.Join(dir, "out", "results.csv"),
		MetricsFile: filepath.Join(dir, "metrics", "kocsv.prom"),
	}

	require.NoError(t, generateReport(zap.NewNop(), rc, []string{path}, &bytes.Buffer{}))
	assert.FileExists(t, rc.Output)
	assert.FileExists(t, rc.MetricsFile)
}
