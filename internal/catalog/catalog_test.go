package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"race-registry/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	assert.Equal(t, []string{"5km", "10km", "21km", "42km"}, cat.Distances())

	for distance, capacity := range map[string]int{
		"5km": 200, "10km": 300, "21km": 250, "42km": 200,
	} {
		got, err := cat.CapacityLimit(distance)
		require.NoError(t, err)
		assert.Equal(t, capacity, got, distance)
	}

	_, err := cat.CapacityLimit("100km")
	assert.ErrorIs(t, err, domain.ErrUnknownDistance)
}

func TestMembership(t *testing.T) {
	cat := Default()

	assert.True(t, cat.IsValidDistance("21km"))
	assert.False(t, cat.IsValidDistance("100km"))
	assert.False(t, cat.IsValidDistance(""))

	assert.True(t, cat.IsValidAgeGroup("35-44"))
	assert.True(t, cat.IsValidAgeGroup("65+"))
	assert.False(t, cat.IsValidAgeGroup("12-17"))

	assert.True(t, cat.IsValidGender("M"))
	assert.True(t, cat.IsValidGender("F"))
	assert.False(t, cat.IsValidGender("X"))
}

func TestShirtColorDerivation(t *testing.T) {
	cat := Default()

	assert.Equal(t, "blue", cat.ShirtColorFor("5km"))
	assert.Equal(t, "green", cat.ShirtColorFor("10km"))
	assert.Equal(t, "orange", cat.ShirtColorFor("21km"))
	assert.Equal(t, "red", cat.ShirtColorFor("42km"))
	assert.Equal(t, ShirtColorUnknown, cat.ShirtColorFor("100km"))

	// Derivation is deterministic across calls and catalog instances.
	for i := 0; i < 3; i++ {
		assert.Equal(t, "red", Default().ShirtColorFor("42km"))
	}
}
