package domain

import "math"

// Coordinate - точка WGS84
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero проверяет, задана ли координата
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

const earthRadiusMeters = 6371000.0

// DistanceTo возвращает расстояние по прямой (haversine) в метрах
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dLat := (other.Lat - c.Lat) * math.Pi / 180.0
	dLon := (other.Lon - c.Lon) * math.Pi / 180.0

	lat1Rad := c.Lat * math.Pi / 180.0
	lat2Rad := other.Lat * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// FeedPublisher - источник данных, который обязательно отдается клиенту без изменений
type FeedPublisher struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	License string `json:"license"`
	URL     string `json:"url"`
}

// MergeFeedPublishers объединяет списки без дублей по ID, сохраняя порядок первого появления
func MergeFeedPublishers(lists ...[]FeedPublisher) []FeedPublisher {
	seen := make(map[string]struct{})
	result := make([]FeedPublisher, 0)
	for _, list := range lists {
		for _, fp := range list {
			if _, ok := seen[fp.ID]; ok {
				continue
			}
			seen[fp.ID] = struct{}{}
			result = append(result, fp)
		}
	}
	return result
}
