package service

import (
	"fmt"
	"sort"

	"github.com/jengzang/wifi-positioning-go/internal/models"
	"github.com/jengzang/wifi-positioning-go/internal/repository"
	"github.com/jengzang/wifi-positioning-go/internal/spatial"
)

// LocationService handles business logic for the location registry
type LocationService struct {
	locationRepo *repository.LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo *repository.LocationRepository) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
	}
}

// Register upserts a location registry entry. Coordinates must come as a
// pair or not at all.
func (s *LocationService) Register(loc *models.Location) error {
	if loc.Name == "" {
		return fmt.Errorf("location name is required")
	}
	if (loc.Lat == nil) != (loc.Lng == nil) {
		return fmt.Errorf("lat and lng must be provided together")
	}
	if loc.Lat != nil {
		if *loc.Lat < -90 || *loc.Lat > 90 {
			return fmt.Errorf("lat out of range")
		}
		if *loc.Lng < -180 || *loc.Lng > 180 {
			return fmt.Errorf("lng out of range")
		}
	}
	return s.locationRepo.Upsert(loc)
}

// All returns every registered location.
func (s *LocationService) All() ([]models.Location, error) {
	return s.locationRepo.All()
}

// Nearby returns locations that carry coordinates, ordered by distance
// from the query point, at most limit entries.
func (s *LocationService) Nearby(lat, lng float64, limit int) ([]models.NearbyLocation, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("query coordinates out of range")
	}
	if limit <= 0 {
		limit = 5
	}

	positioned, err := s.locationRepo.Positioned()
	if err != nil {
		return nil, fmt.Errorf("failed to load positioned locations: %w", err)
	}

	nearby := make([]models.NearbyLocation, 0, len(positioned))
	for _, loc := range positioned {
		nearby = append(nearby, models.NearbyLocation{
			Location:       loc,
			DistanceMeters: spatial.HaversineDistance(lat, lng, *loc.Lat, *loc.Lng),
		})
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}
