package domain

import "fmt"

// FallbackMode - режим передвижения до/от сети общественного транспорта
type FallbackMode string

const (
	ModeWalking     FallbackMode = "walking"
	ModeBike        FallbackMode = "bike"
	ModeBss         FallbackMode = "bss"
	ModeCar         FallbackMode = "car"
	ModeCarNoPark   FallbackMode = "car_no_park"
	ModeRidesharing FallbackMode = "ridesharing"
	ModeTaxi        FallbackMode = "taxi"
)

// AllFallbackModes в порядке объявления
var AllFallbackModes = []FallbackMode{
	ModeWalking, ModeBike, ModeBss, ModeCar, ModeCarNoPark, ModeRidesharing, ModeTaxi,
}

// modeWeights - подсказка планировщику: дешевые режимы запускаются первыми
var modeWeights = map[FallbackMode]int{
	ModeWalking:     1,
	ModeBike:        100,
	ModeBss:         500,
	ModeCar:         1000,
	ModeCarNoPark:   1000,
	ModeRidesharing: 1000,
	ModeTaxi:        1000,
}

// ParseFallbackMode валидирует строковый тег режима
func ParseFallbackMode(s string) (FallbackMode, error) {
	m := FallbackMode(s)
	if _, ok := modeWeights[m]; !ok {
		return "", fmt.Errorf("unknown fallback mode %q", s)
	}
	return m, nil
}

// Weight возвращает вес режима для сортировки задач
func (m FallbackMode) Weight() int {
	return modeWeights[m]
}

// UsesCar - режимы, для которых фоллбэк строится по автомобильной сети
func (m FallbackMode) UsesCar() bool {
	return m == ModeCar || m == ModeCarNoPark || m == ModeRidesharing || m == ModeTaxi
}

// ModePair - пара режимов (фоллбэк в начале, фоллбэк в конце)
type ModePair struct {
	Departure FallbackMode `json:"departure"`
	Arrival   FallbackMode `json:"arrival"`
}

// Weight пары - сумма весов
func (p ModePair) Weight() int {
	return p.Departure.Weight() + p.Arrival.Weight()
}

func (p ModePair) String() string {
	return string(p.Departure) + "-" + string(p.Arrival)
}

// NonPtType - raw type поездки без ОТ для режима (non_pt_walk, non_pt_bike, ...)
func NonPtType(m FallbackMode) string {
	switch m {
	case ModeWalking:
		return "non_pt_walk"
	case ModeCarNoPark:
		return "non_pt_car"
	}
	return "non_pt_" + string(m)
}
