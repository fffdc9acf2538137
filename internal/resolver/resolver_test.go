package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/model"
)

func camp(id uint64, name string, year int, status string, created time.Time) model.Camp {
	return model.Camp{ID: id, Name: name, Year: year, Status: status, CreatedAt: created}
}

func TestResolveExactMatch(t *testing.T) {
	now := time.Now()
	camps := []model.Camp{
		camp(1, "Summer Camp 2026", 2026, model.CampStatusActive, now),
		camp(2, "Winter Camp", 2026, model.CampStatusActive, now),
	}
	got, err := Resolve("Summer Camp 2026", camps)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)
}

func TestResolveExactIsCaseInsensitive(t *testing.T) {
	camps := []model.Camp{camp(1, "Summer Camp 2026", 2026, model.CampStatusActive, time.Now())}
	got, err := Resolve("  summer camp 2026 ", camps)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)
}

func TestResolveExactBeatsSubstring(t *testing.T) {
	now := time.Now()
	camps := []model.Camp{
		camp(1, "Summer Camp", 2026, model.CampStatusActive, now),
		camp(2, "Summer Camp Extended", 2026, model.CampStatusActive, now),
	}
	got, err := Resolve("Summer Camp", camps)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)
}

func TestResolveSubstringBothDirections(t *testing.T) {
	camps := []model.Camp{camp(1, "Summer Camp 2026", 2026, model.CampStatusActive, time.Now())}

	// Query contains the camp name.
	got, err := Resolve("Summer Camp 2026 - Early Bird", camps)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)

	// Camp name contains the query.
	got, err = Resolve("summer camp", camps)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.ID)
}

func TestResolveIgnoresInactiveCamps(t *testing.T) {
	now := time.Now()
	camps := []model.Camp{
		camp(1, "Summer Camp", 2025, model.CampStatusArchived, now),
		camp(2, "Summer Camp", 2024, model.CampStatusDeactivated, now),
	}
	_, err := Resolve("Summer Camp", camps)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveNotFound(t *testing.T) {
	camps := []model.Camp{camp(1, "Winter Camp", 2026, model.CampStatusActive, time.Now())}
	_, err := Resolve("Space Camp", camps)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Resolve("   ", camps)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAmbiguousSubstringFails(t *testing.T) {
	now := time.Now()
	camps := []model.Camp{
		camp(1, "Summer Camp North", 2026, model.CampStatusActive, now),
		camp(2, "Summer Camp South", 2026, model.CampStatusActive, now),
	}
	_, err := Resolve("Summer Camp", camps)
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestResolveExactTieBreakPrefersNewestSeason(t *testing.T) {
	now := time.Now()
	camps := []model.Camp{
		camp(1, "Summer Camp", 2025, model.CampStatusActive, now.Add(-time.Hour)),
		camp(2, "Summer Camp", 2026, model.CampStatusActive, now),
	}
	got, err := Resolve("Summer Camp", camps)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ID)
}

func TestResolveExactTieBreakPrefersMostRecentlyCreated(t *testing.T) {
	now := time.Now()
	camps := []model.Camp{
		camp(1, "Summer Camp", 2026, model.CampStatusActive, now.Add(-time.Hour)),
		camp(2, "Summer Camp", 2026, model.CampStatusActive, now),
	}
	got, err := Resolve("Summer Camp", camps)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ID)
}

func TestResolveFullTieIsAmbiguous(t *testing.T) {
	now := time.Now()
	camps := []model.Camp{
		camp(1, "Summer Camp", 2026, model.CampStatusActive, now),
		camp(2, "Summer Camp", 2026, model.CampStatusActive, now),
	}
	_, err := Resolve("Summer Camp", camps)
	assert.ErrorIs(t, err, ErrAmbiguous)
}
