package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PlaceKind - тип объекта, к которому привязано место
type PlaceKind string

const (
	PlaceStopPoint PlaceKind = "stop_point"
	PlaceStopArea  PlaceKind = "stop_area"
	PlaceAddress   PlaceKind = "address"
	PlacePOI       PlaceKind = "poi"
	PlaceAdmin     PlaceKind = "administrative_region"
	PlaceCoord     PlaceKind = "coord"
)

// Place - точка отправления/прибытия или кандидат на пересадку в сеть ОТ
type Place struct {
	URI        string            `json:"id"`
	Name       string            `json:"name"`
	Kind       PlaceKind         `json:"embedded_type"`
	Coord      Coordinate        `json:"coord"`
	Region     string            `json:"region,omitempty"`
	StopPoints []Place           `json:"stop_points,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// IsStop - является ли место остановкой ОТ
func (p Place) IsStop() bool {
	return p.Kind == PlaceStopPoint || p.Kind == PlaceStopArea
}

// Property возвращает свойство места (network, operator, ...)
func (p Place) Property(key string) string {
	if p.Properties == nil {
		return ""
	}
	return p.Properties[key]
}

// FreelyReachable возвращает URI мест, доступных из p без пешего перехода:
// сама остановка и stop_point'ы внутри stop_area.
func (p Place) FreelyReachable() []string {
	var uris []string
	if p.Kind == PlaceStopPoint {
		uris = append(uris, p.URI)
	}
	if p.Kind == PlaceStopArea {
		for _, sp := range p.StopPoints {
			uris = append(uris, sp.URI)
		}
	}
	return uris
}

// ParseCoordURI разбирает URI вида "lon;lat". ok=false если это не координата.
func ParseCoordURI(uri string) (Place, bool, error) {
	parts := strings.Split(uri, ";")
	if len(parts) != 2 {
		return Place{}, false, nil
	}
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLon != nil || errLat != nil {
		return Place{}, false, nil
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Place{}, true, fmt.Errorf("coordinate out of range: %s", uri)
	}
	return Place{
		URI:   uri,
		Name:  uri,
		Kind:  PlaceCoord,
		Coord: Coordinate{Lat: lat, Lon: lon},
	}, true, nil
}
