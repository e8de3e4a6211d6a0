package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jengzang/wifi-positioning-go/internal/database"
	"github.com/jengzang/wifi-positioning-go/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// In-memory databases are per connection; keep the pool at one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func TestPredictionRepository_SaveAndRecent(t *testing.T) {
	db := openTestDB(t)
	repo := NewPredictionRepository(db)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, loc := range []string{"Kitchen", "Office", "Kitchen"} {
		p := &models.Prediction{
			Location:   loc,
			Confidence: 0.5 + float64(i)*0.1,
			MatchedAPs: i + 1,
			TotalAPs:   5,
			Entropy:    0.4,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Save(p))
		assert.Positive(t, p.ID, "Save fills in the generated id")
	}

	recent, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Kitchen", recent[0].Location)
	assert.Equal(t, "Office", recent[1].Location)
	assert.Equal(t, 3, recent[0].MatchedAPs)

	all, err := repo.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit falls back to the default")
}

func TestPredictionRepository_CountByLocation(t *testing.T) {
	db := openTestDB(t)
	repo := NewPredictionRepository(db)

	for _, loc := range []string{"Kitchen", "Kitchen", "Office"} {
		require.NoError(t, repo.Save(&models.Prediction{
			Location: loc, Confidence: 0.9, TotalAPs: 3, Timestamp: time.Now().UTC(),
		}))
	}

	counts, err := repo.CountByLocation()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Kitchen": 2, "Office": 1}, counts)
}

func TestLocationRepository_UpsertAndQuery(t *testing.T) {
	db := openTestDB(t)
	repo := NewLocationRepository(db)

	lat, lng := 40.0169, 116.3076
	require.NoError(t, repo.Upsert(&models.Location{Name: "Kitchen", Floor: "1F", Lat: &lat, Lng: &lng}))
	require.NoError(t, repo.Upsert(&models.Location{Name: "Office"}))

	all, err := repo.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Kitchen", all[0].Name)
	assert.Equal(t, "1F", all[0].Floor)
	assert.Equal(t, "Office", all[1].Name)
	assert.Nil(t, all[1].Lat)

	positioned, err := repo.Positioned()
	require.NoError(t, err)
	require.Len(t, positioned, 1)
	assert.Equal(t, "Kitchen", positioned[0].Name)

	// Re-registering a name updates its placement instead of duplicating it.
	newLat := 40.02
	require.NoError(t, repo.Upsert(&models.Location{Name: "Kitchen", Floor: "2F", Lat: &newLat, Lng: &lng}))

	all, err = repo.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2F", all[0].Floor)
	assert.InDelta(t, 40.02, *all[0].Lat, 1e-9)
}
