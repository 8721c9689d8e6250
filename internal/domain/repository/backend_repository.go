package repository

import (
	"context"

	"github.com/journey-planner/internal/domain"
)

// PlaceRepository - геокодирование (реализуется planner backend'ом)
type PlaceRepository interface {
	// Place возвращает объект по URI. domain.ErrPlaceNotFound если не найден.
	Place(ctx context.Context, uri string) (*domain.Place, error)

	// PlacesNearby возвращает остановки ОТ в радиусе (метры) от места
	PlacesNearby(ctx context.Context, place domain.Place, radius float64) ([]domain.Place, error)
}

// MatrixQuery - запрос routing matrix один-ко-многим
type MatrixQuery struct {
	Mode        domain.FallbackMode
	Origin      domain.Place
	Candidates  []domain.Place
	MaxDuration int
	Speed       float64
	// Reverse - считать от кандидатов к месту (фоллбэк в конце поездки)
	Reverse bool
}

// StreetNetworkRepository - вычисления по уличной сети
type StreetNetworkRepository interface {
	// RoutingMatrix возвращает элементы в порядке query.Candidates
	RoutingMatrix(ctx context.Context, query MatrixQuery) ([]domain.DurationElement, error)

	// DirectPath строит маршрут без ОТ
	DirectPath(ctx context.Context, query domain.DirectPathQuery) (*domain.DirectPath, error)
}

// PtQuery - запрос к planner backend'у
type PtQuery struct {
	Origins      map[string]int
	Destinations map[string]int
	Params       domain.JourneyRequestParameters
	Isochrone    bool
}

// PtResult - ответ planner backend'а
type PtResult struct {
	Journeys       []*domain.Journey
	FeedPublishers []domain.FeedPublisher
}

// PlannerRepository - вычисление поездок на ОТ.
// Отсутствие маршрута возвращается как *domain.NoSolutionError.
type PlannerRepository interface {
	PtJourneys(ctx context.Context, query PtQuery) (*PtResult, error)
}
