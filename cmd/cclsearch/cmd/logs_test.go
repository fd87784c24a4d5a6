package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLog = `{"time":"2026-03-01T09:00:00.000Z","level":"DEBUG","msg":"ccl_query_translated","ccl":"ti cats"}
{"time":"2026-03-01T09:00:01.000Z","level":"DEBUG","msg":"ccl_query_rejected","ccl":"(ti","code":"ERR_402_PARSE"}
{"time":"2026-03-01T09:00:02.000Z","level":"WARN","msg":"slow_catalog","backend":"sqlite"}
`

func writeTestLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cclsearch.log")
	require.NoError(t, os.WriteFile(path, []byte(testLog), 0644))
	return path
}

func TestLogsCmd_Tail(t *testing.T) {
	env := newCLIEnv(t)
	path := writeTestLog(t)

	out, _, err := env.run("logs", "--file", path, "-n", "2")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ccl_query_rejected")
	assert.Contains(t, lines[1], "WARN  slow_catalog backend=sqlite")
}

func TestLogsCmd_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"event", []string{"--event", "ccl_query_translated"}, "ccl=ti cats"},
		{"grep", []string{"--grep", "ERR_40[12]"}, "code=ERR_402_PARSE"},
		{"level", []string{"--level", "warn"}, "slow_catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			path := writeTestLog(t)

			out, _, err := env.run(append([]string{"logs", "--file", path}, tt.args...)...)

			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 1)
			assert.Contains(t, lines[0], tt.want)
		})
	}
}

func TestLogsCmd_NoMatches(t *testing.T) {
	env := newCLIEnv(t)
	path := writeTestLog(t)

	out, stderr, err := env.run("logs", "--file", path, "--event", "nothing")

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "No matching log entries")
}

func TestLogsCmd_MissingFile(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("logs", "--file", filepath.Join(t.TempDir(), "none.log"))

	assert.Error(t, err)
}

func TestLogsCmd_BadPattern(t *testing.T) {
	env := newCLIEnv(t)
	path := writeTestLog(t)

	_, _, err := env.run("logs", "--file", path, "--grep", "([")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --grep pattern")
}
