package orchestrator_test

import (
	"testing"

	"github.com/blackfinplus/sleighgen/internal/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBuildsSevenFamilies(t *testing.T) {
	families := orchestrator.Default().Build()
	require.Len(t, families, 7)

	byWidth := map[orchestrator.Width]int{}
	for _, f := range families {
		byWidth[f.Width]++
	}
	assert.Equal(t, 3, byWidth[orchestrator.Width16])
	assert.Equal(t, 3, byWidth[orchestrator.Width32])
	assert.Equal(t, 1, byWidth[orchestrator.Width64])
}

func TestDefaultFamiliesAreTokenInitialised(t *testing.T) {
	families := orchestrator.Default().Build()
	for _, f := range families {
		assert.NotZero(t, f.Builder.Len(), "family %s has no instructions", f.Builder.Name())
		// An un-initialised family renders a head with no token table;
		// a `define token` line confirms InitializeTokensAndVars ran.
		assert.Contains(t, f.Builder.BuildHead(), "define token", "family %s has no token table", f.Builder.Name())
	}
}

func TestDefaultFamiliesPassModelValidation(t *testing.T) {
	_, reporter := orchestrator.Default().BuildChecked()
	assert.False(t, reporter.HasErrors(), "unexpected model errors: %v", reporter.Errors())
}
