package domain

import "sort"

// RoutingStatus - статус достижимости, который возвращает street network
type RoutingStatus string

const (
	StatusReached   RoutingStatus = "reached"
	StatusUnreached RoutingStatus = "unreached"
	StatusUnknown   RoutingStatus = "unknown"
)

// DurationElement - время в пути (секунды) до места и статус
type DurationElement struct {
	Duration int           `json:"duration"`
	Status   RoutingStatus `json:"routing_status"`
}

// FallbackDurations - неизменяемая карта place URI -> DurationElement для одного режима.
// Строится один раз пулом и больше не модифицируется.
type FallbackDurations struct {
	mode     FallbackMode
	elements map[string]DurationElement
}

// NewFallbackDurations копирует elements, вызывающий может переиспользовать исходную карту
func NewFallbackDurations(mode FallbackMode, elements map[string]DurationElement) *FallbackDurations {
	copied := make(map[string]DurationElement, len(elements))
	for k, v := range elements {
		copied[k] = v
	}
	return &FallbackDurations{mode: mode, elements: copied}
}

// Mode возвращает режим, для которого посчитана карта
func (f *FallbackDurations) Mode() FallbackMode {
	return f.mode
}

// Get возвращает элемент для места
func (f *FallbackDurations) Get(uri string) (DurationElement, bool) {
	if f == nil {
		return DurationElement{}, false
	}
	el, ok := f.elements[uri]
	return el, ok
}

// Len - количество доступных мест
func (f *FallbackDurations) Len() int {
	if f == nil {
		return 0
	}
	return len(f.elements)
}

// IsEmpty - ни одна остановка не достижима
func (f *FallbackDurations) IsEmpty() bool {
	return f.Len() == 0
}

// URIs - отсортированный список мест
func (f *FallbackDurations) URIs() []string {
	if f == nil {
		return nil
	}
	uris := make([]string, 0, len(f.elements))
	for uri := range f.elements {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// Durations возвращает копию карты place URI -> секунды (для отправки в planner)
func (f *FallbackDurations) Durations() map[string]int {
	if f == nil {
		return nil
	}
	out := make(map[string]int, len(f.elements))
	for uri, el := range f.elements {
		out[uri] = el.Duration
	}
	return out
}
