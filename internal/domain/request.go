package domain

import "time"

// RealtimeLevel - уровень свежести данных расписания
type RealtimeLevel string

const (
	RealtimeBaseSchedule    RealtimeLevel = "base_schedule"
	RealtimeAdaptedSchedule RealtimeLevel = "adapted_schedule"
	RealtimeRealtime        RealtimeLevel = "realtime"
)

// Penalties - штрафы, передаваемые planner backend'у
type Penalties struct {
	Walking  int `json:"walking_transfer_penalty"`
	Transfer int `json:"transfer_penalty"`
}

// JourneyRequestParameters - уже провалидированные параметры запроса.
// Неизменяемы в течение запроса: карты не модифицируются после создания.
type JourneyRequestParameters struct {
	Datetime        time.Time
	Clockwise       bool
	MaxDuration     int
	MaxTransfers    int
	Wheelchair      bool
	RealtimeLevel   RealtimeLevel
	ForbiddenURIs   []string
	Penalties       Penalties
	MaxDurationToPt map[FallbackMode]int
	Speeds          map[FallbackMode]float64
	ParkDuration    int
	TravelerType    string
	Debug           bool
}

// MaxDurationToPtFor - лимит фоллбэка для режима в секундах
func (p JourneyRequestParameters) MaxDurationToPtFor(mode FallbackMode) int {
	return p.MaxDurationToPt[mode]
}

// SpeedFor - скорость режима в м/с
func (p JourneyRequestParameters) SpeedFor(mode FallbackMode) float64 {
	if v, ok := p.Speeds[mode]; ok && v > 0 {
		return v
	}
	return 1.12
}
