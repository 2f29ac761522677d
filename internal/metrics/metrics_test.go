package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestObservePhaseNormalisesOutcome(t *testing.T) {
	before := testutil.ToFloat64(phasesTotal.WithLabelValues(OutcomeSuccess))
	ObservePhase(-time.Second, "weird")
	assert.Equal(t, before+1, testutil.ToFloat64(phasesTotal.WithLabelValues(OutcomeSuccess)))

	beforeDegenerate := testutil.ToFloat64(phasesTotal.WithLabelValues(OutcomeDegenerate))
	ObservePhase(time.Millisecond, OutcomeDegenerate)
	assert.Equal(t, beforeDegenerate+1, testutil.ToFloat64(phasesTotal.WithLabelValues(OutcomeDegenerate)))
}

func TestAddPatternsAndTextfile(t *testing.T) {
	before := testutil.ToFloat64(patternsTotal.WithLabelValues("do"))
	AddPatterns("do", 3)
	AddPatterns("do", 0)
	assert.Equal(t, before+3, testutil.ToFloat64(patternsTotal.WithLabelValues("do")))

	SetAccuracy("early", 0.75)
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	path := filepath.Join(t.TempDir(), "pathmine.prom")
	require.NoError(t, WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mirador_pathmine_phase_accuracy")
	assert.Contains(t, string(data), `kind="do"`)
}
