package domain

import "time"

// ProviderKind - семейство внешних коннекторов
type ProviderKind string

const (
	ProviderBikeShare   ProviderKind = "bss"
	ProviderCarPark     ProviderKind = "car_park"
	ProviderRidesharing ProviderKind = "ridesharing"
	ProviderEquipment   ProviderKind = "equipment"
	ProviderRealtime    ProviderKind = "realtime"
)

// ProviderRecord - запись конфигурации провайдера, достаточная для его пересоздания
type ProviderRecord struct {
	ID         string         `json:"id" db:"id" mapstructure:"id"`
	Class      string         `json:"class" db:"klass" mapstructure:"class"`
	Args       map[string]any `json:"args" db:"-" mapstructure:"args"`
	LastUpdate time.Time      `json:"last_update" db:"last_update" mapstructure:"last_update"`
}

// ProviderCallStatus - итог одного обращения к провайдеру
type ProviderCallStatus string

const (
	CallOK          ProviderCallStatus = "ok"
	CallCircuitOpen ProviderCallStatus = "circuit_open"
	CallTimeout     ProviderCallStatus = "timeout"
	CallOther       ProviderCallStatus = "other"
)

// ProviderStatusEvent публикуется после каждого обращения к провайдеру
type ProviderStatusEvent struct {
	ProviderID string             `json:"provider_id"`
	Kind       ProviderKind       `json:"kind"`
	Status     ProviderCallStatus `json:"status"`
	LatencyMS  int64              `json:"latency_ms"`
	At         time.Time          `json:"at"`
	Message    string             `json:"message,omitempty"`
}

// Stream names
const (
	StreamProviderStatus = "stream:provider:status"
)

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
