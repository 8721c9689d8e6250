package dto

import "github.com/journey-planner/internal/domain"

// JourneysResponse - результат планирования
type JourneysResponse struct {
	Region         string                 `json:"region"`
	Journeys       []*domain.Journey      `json:"journeys"`
	FeedPublishers []domain.FeedPublisher `json:"feed_publishers"`
	Debug          *JourneyDebug          `json:"debug,omitempty"`
}

// JourneyDebug - сведения о ветках вычисления (только при debug=true)
type JourneyDebug struct {
	Branches    []BranchDebug `json:"branches"`
	DirectPaths int           `json:"direct_paths"`
}

// BranchDebug - итог одной пары режимов
type BranchDebug struct {
	Modes    string `json:"modes"`
	Outcome  string `json:"outcome"`
	Journeys int    `json:"journeys"`
	Error    string `json:"error,omitempty"`
}

// DeparturesResponse - ближайшие отправления
type DeparturesResponse struct {
	Stop           string                 `json:"stop"`
	Departures     []domain.Passage       `json:"departures"`
	FeedPublishers []domain.FeedPublisher `json:"feed_publishers"`
}

// ProviderDTO - провайдер в объединенном представлении реестра
type ProviderDTO struct {
	ID            string                      `json:"id"`
	Kind          domain.ProviderKind         `json:"kind"`
	FeedPublisher *domain.FeedPublisher       `json:"feed_publisher,omitempty"`
	LastStatus    *domain.ProviderStatusEvent `json:"last_status,omitempty"`
}

// ProvidersResponse - все провайдеры всех реестров
type ProvidersResponse struct {
	Providers []ProviderDTO `json:"providers"`
}
