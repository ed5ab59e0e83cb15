package cityspec_test

import (
	"context"
	"testing"

	"github.com/Emeline-1/citygen/cityspec"
	"github.com/Emeline-1/citygen/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCityEndToEnd(t *testing.T) {
	spec := cityspec.CitySpec{
		Size:   8000,
		Seed:   13,
		Oracle: flow.Nearest{},
	}

	result, err := cityspec.GenerateCity(context.Background(), spec)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.Probes)
	assert.NotEmpty(t, result.Connections)
	assert.Len(t, result.Centerlines, len(result.Connections))
	assert.Len(t, result.TrafficWays, len(result.Connections))
	assert.NotEmpty(t, result.Streets)
	assert.NotEmpty(t, result.Intersections)
}

func TestGenerateCityRequiresOracle(t *testing.T) {
	_, err := cityspec.GenerateCity(context.Background(), cityspec.CitySpec{Size: 5000, Seed: 13})
	assert.Error(t, err)
}

func TestValidateReportsDisconnectedProbesWithoutFailing(t *testing.T) {
	result, err := cityspec.GenerateCity(context.Background(), cityspec.CitySpec{
		Size:   8000,
		Seed:   13,
		Oracle: flow.Nearest{},
	})
	require.NoError(t, err)

	// flow.Nearest's 1-NN-only topology typically fragments into many small
	// components, so this only exercises that Validate runs to completion
	// and returns plain probe indices -- it makes no connectivity claim
	// about the trivial stand-in oracle's output.
	disconnected := cityspec.Validate(result)
	for _, idx := range disconnected {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(result.Probes))
	}
}
