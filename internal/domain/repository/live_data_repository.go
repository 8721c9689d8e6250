package repository

import (
	"context"
	"time"

	"github.com/journey-planner/internal/domain"
)

// Provider - общий контракт коннекторов к внешним live-данным
type Provider interface {
	ID() string
	// Handles - обслуживает ли провайдер это место (по network/operator или зоне покрытия)
	Handles(place domain.Place) bool
	// FeedPublisher - источник данных для атрибуции, nil если не требуется
	FeedPublisher() *domain.FeedPublisher
}

// BssProvider - доступность велосипедов на станциях bike-sharing
type BssProvider interface {
	Provider
	StandsAt(ctx context.Context, place domain.Place) (*domain.Stands, error)
}

// CarParkProvider - заполненность парковок
type CarParkProvider interface {
	Provider
	Availability(ctx context.Context, place domain.Place) (*domain.ParkingAvailability, error)
}

// RidesharingProvider - предложения попутчиков
type RidesharingProvider interface {
	Provider
	Offers(ctx context.Context, from, to domain.Place, datetime time.Time) ([]domain.RidesharingOffer, error)
}

// EquipmentProvider - состояние лифтов и эскалаторов на остановках
type EquipmentProvider interface {
	Provider
	Reports(ctx context.Context, stopPointURIs []string) ([]domain.EquipmentReport, error)
}

// RealtimeProvider - ближайшие отправления в реальном времени
type RealtimeProvider interface {
	Provider
	NextPassages(ctx context.Context, stopURI, lineURI string, from time.Time) ([]domain.Passage, error)
}

// StatusRecorder принимает событие после каждого вызова провайдера
type StatusRecorder interface {
	Record(ctx context.Context, event domain.ProviderStatusEvent)
}
