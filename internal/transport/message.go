package transport

import (
	"time"

	"github.com/journey-planner/internal/domain"
)

// API - вызываемый метод backend'а
type API string

const (
	APIPlacesNearby  API = "places_nearby"
	APIPlaceURI      API = "place_uri"
	APIDirectPath    API = "direct_path"
	APIRoutingMatrix API = "routing_matrix"
	APIPtPlanner     API = "pt_planner"
)

// Request - конверт запроса. Ровно одно из полей payload заполнено.
// RequestID и Deadline проставляет Channel.
type Request struct {
	RequestedAPI API       `json:"requested_api"`
	RequestID    string    `json:"request_id"`
	Deadline     time.Time `json:"deadline"`

	PlacesNearby  *PlacesNearbyRequest  `json:"places_nearby,omitempty"`
	PlaceURI      *PlaceURIRequest      `json:"place_uri,omitempty"`
	DirectPath    *DirectPathRequest    `json:"direct_path,omitempty"`
	RoutingMatrix *RoutingMatrixRequest `json:"routing_matrix,omitempty"`
	PtPlanner     *PtPlannerRequest     `json:"pt_planner,omitempty"`
}

// PlacesNearbyRequest - остановки в радиусе
type PlacesNearbyRequest struct {
	URI    string            `json:"uri"`
	Coord  domain.Coordinate `json:"coord"`
	Radius float64           `json:"distance"`
	Types  []string          `json:"types"`
	Count  int               `json:"count"`
}

// PlaceURIRequest - поиск объекта по URI
type PlaceURIRequest struct {
	URI string `json:"uri"`
}

// Point - точка для street network
type Point struct {
	URI   string            `json:"uri"`
	Coord domain.Coordinate `json:"coord"`
}

// DirectPathRequest - маршрут без ОТ
type DirectPathRequest struct {
	Mode        string    `json:"mode"`
	Origin      Point     `json:"origin"`
	Destination Point     `json:"destination"`
	Datetime    time.Time `json:"datetime"`
	Clockwise   bool      `json:"clockwise"`
	Speed       float64   `json:"speed"`
}

// RoutingMatrixRequest - матрица длительностей
type RoutingMatrixRequest struct {
	Mode        string  `json:"mode"`
	Sources     []Point `json:"sources"`
	Targets     []Point `json:"targets"`
	MaxDuration int     `json:"max_duration"`
	Speed       float64 `json:"speed"`
}

// LocationContext - точка входа в сеть ОТ с временем доступа
type LocationContext struct {
	PlaceURI       string `json:"place"`
	AccessDuration int    `json:"access_duration"`
}

// PtPlannerRequest - запрос на поездки на ОТ
type PtPlannerRequest struct {
	Origins                []LocationContext `json:"origin"`
	Destinations           []LocationContext `json:"destination"`
	Datetime               time.Time         `json:"datetime"`
	Clockwise              bool              `json:"clockwise"`
	MaxDuration            int               `json:"max_duration"`
	MaxTransfers           int               `json:"max_transfers"`
	Wheelchair             bool              `json:"wheelchair"`
	RealtimeLevel          string            `json:"realtime_level"`
	ForbiddenURIs          []string          `json:"forbidden_uris,omitempty"`
	WalkingTransferPenalty int               `json:"walking_transfer_penalty"`
	TransferPenalty        int               `json:"transfer_penalty"`
	Isochrone              bool              `json:"isochrone,omitempty"`
}

// ResponseError - функциональная ошибка backend'а
type ResponseError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Response - конверт ответа
type Response struct {
	RequestID      string                 `json:"request_id"`
	Error          *ResponseError         `json:"error,omitempty"`
	Places         []domain.Place         `json:"places,omitempty"`
	DirectPath     *domain.DirectPath     `json:"direct_path,omitempty"`
	RoutingMatrix  *RoutingMatrixResponse `json:"routing_matrix,omitempty"`
	Journeys       []WireJourney          `json:"journeys,omitempty"`
	FeedPublishers []domain.FeedPublisher `json:"feed_publishers,omitempty"`
}

// RoutingMatrixResponse - строки по источникам, столбцы по целям
type RoutingMatrixResponse struct {
	Rows [][]domain.DurationElement `json:"rows"`
}

// WireJourney - поездка в том виде, в каком ее отдает backend.
// Type здесь - метка backend'а, а не результат квалификации.
type WireJourney struct {
	Type              string           `json:"type"`
	Tags              []string         `json:"tags,omitempty"`
	Sections          []domain.Section `json:"sections"`
	DepartureDateTime time.Time        `json:"departure_date_time"`
	ArrivalDateTime   time.Time        `json:"arrival_date_time"`
	Duration          int              `json:"duration"`
	NbTransfers       int              `json:"nb_transfers"`
}
