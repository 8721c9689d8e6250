package dto

// JourneyRequest - параметры запроса поездок (query string)
type JourneyRequest struct {
	From               string   `query:"from" validate:"required"`
	To                 string   `query:"to"` // пусто - изохрона
	Datetime           string   `query:"datetime"`
	DatetimeRepresents string   `query:"datetime_represents" validate:"omitempty,oneof=departure arrival"`
	FirstSectionModes  []string `query:"first_section_mode" validate:"omitempty,max=7,dive,fallback_mode"`
	LastSectionModes   []string `query:"last_section_mode" validate:"omitempty,max=7,dive,fallback_mode"`
	MaxDuration        *int     `query:"max_duration" validate:"omitempty,min=0,max=172800"` // секунды
	MaxNbTransfers     *int     `query:"max_nb_transfers" validate:"omitempty,min=0,max=20"`
	MaxDurationToPt    *int     `query:"max_duration_to_pt" validate:"omitempty,min=0,max=7200"`
	Wheelchair         bool     `query:"wheelchair"`
	TravelerType       string   `query:"traveler_type" validate:"omitempty,oneof=standard slow_walker fast_walker luggage wheelchair cyclist motorist"`
	Debug              bool     `query:"debug"`
	ForbiddenURIs      []string `query:"forbidden_uris" validate:"omitempty,max=100"`
	DataFreshness      string   `query:"data_freshness" validate:"omitempty,oneof=base_schedule adapted_schedule realtime"`
}

// IsIsochrone - запрос без точки назначения
func (r JourneyRequest) IsIsochrone() bool {
	return r.To == ""
}

// DeparturesRequest - ближайшие отправления с остановки
type DeparturesRequest struct {
	Stop     string `query:"stop" validate:"required"`
	Line     string `query:"line"`
	Datetime string `query:"datetime"`
	Count    int    `query:"count" validate:"omitempty,min=1,max=50"`
}
