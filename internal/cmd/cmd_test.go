package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureCSV = `subject_id,phase,sequence_num,icd_code,mortality,label
1,early,1,A,0,urgent
1,early,2,B,0,urgent
1,early,3,C,0,urgent
2,early,1,A,0,chronic
2,early,2,B,0,chronic
3,early,1,X,1,urgent
3,early,2,Y,1,urgent
3,early,3,Z,1,urgent
4,early,1,X,1,chronic
4,early,2,Y,1,chronic
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MIRADOR_PATHMINE_CONFIG", "")
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	input := writeFixture(t)
	out := filepath.Join(t.TempDir(), "results")
	textfile := filepath.Join(t.TempDir(), "pathmine.prom")

	stdout, err := run(t, "analyze", "--input", input, "--out", out, "--metrics-textfile", textfile, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 frequent transitions")
	assert.Contains(t, stdout, "early")

	for _, name := range []string{
		"report.json",
		"mining.json",
		"frequent.dot",
		"phasewise_recommendations.csv",
		"recovery_early.dot",
		"avoid_early.dot",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.FileExists(t, textfile)

	data, err := os.ReadFile(filepath.Join(out, "report.json"))
	require.NoError(t, err)
	var report struct {
		Phases []struct {
			Phase string `json:"phase"`
			Do    []struct {
				From string `json:"from"`
				To   string `json:"to"`
			} `json:"do"`
		} `json:"phases"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Phases, 3)
	assert.Equal(t, "early", report.Phases[0].Phase)
	require.Len(t, report.Phases[0].Do, 2)
	assert.Equal(t, "A", report.Phases[0].Do[0].From)
	assert.Equal(t, "B", report.Phases[0].Do[0].To)
	assert.Equal(t, "B", report.Phases[0].Do[1].From)
	assert.Equal(t, "C", report.Phases[0].Do[1].To)
}

func TestMineCommand(t *testing.T) {
	input := writeFixture(t)

	stdout, err := run(t, "mine", "--input", input, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 entities, threshold 2")
	assert.Contains(t, stdout, "frequent  A -> B")
	assert.Contains(t, stdout, "frequent  X -> Y")
	assert.NotContains(t, stdout, "extension")
}

func TestAnalyzeRequiresInput(t *testing.T) {
	t.Setenv("MIRADOR_PATHMINE_INPUT", "")
	_, err := run(t, "analyze", "--out", t.TempDir())
	assert.ErrorContains(t, err, "no input file")
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cohorts:\n  alpha: 5\n"), 0o644))

	_, err := run(t, "--config", path, "mine", "--input", writeFixture(t))
	assert.ErrorContains(t, err, "cohorts.alpha")
}
