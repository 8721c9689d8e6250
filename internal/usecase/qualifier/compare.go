package qualifier

import "github.com/journey-planner/internal/domain"

// Comparator возвращает -1 если a лучше b, +1 если хуже, 0 при равенстве
type Comparator func(a, b *domain.Journey) int

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareArrival - раньше прибытие лучше
func CompareArrival(a, b *domain.Journey) int {
	switch {
	case a.ArrivalDateTime.Before(b.ArrivalDateTime):
		return -1
	case a.ArrivalDateTime.After(b.ArrivalDateTime):
		return 1
	}
	return 0
}

// CompareDeparture - позже отправление лучше (запрос "прибыть к")
func CompareDeparture(a, b *domain.Journey) int {
	switch {
	case a.DepartureDateTime.After(b.DepartureDateTime):
		return -1
	case a.DepartureDateTime.Before(b.DepartureDateTime):
		return 1
	}
	return 0
}

// CompareDuration - короче лучше
func CompareDuration(a, b *domain.Journey) int {
	return compareInts(a.Duration, b.Duration)
}

// CompareTransfers - меньше пересадок лучше
func CompareTransfers(a, b *domain.Journey) int {
	return compareInts(a.NbTransfers, b.NbTransfers)
}

// CompareFallback - меньше времени вне ОТ лучше
func CompareFallback(a, b *domain.Journey) int {
	return compareInts(a.FallbackDuration(), b.FallbackDuration())
}

// CompareComfort: обе поездки на ОТ - меньше пересадок, иначе меньше времени вне ОТ
func CompareComfort(a, b *domain.Journey) int {
	if a.HasPublicTransport() && b.HasPublicTransport() {
		if c := CompareTransfers(a, b); c != 0 {
			return c
		}
	}
	return CompareFallback(a, b)
}

// Chain - первый ненулевой компаратор побеждает
func Chain(comparators ...Comparator) Comparator {
	return func(a, b *domain.Journey) int {
		for _, cmp := range comparators {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// Ranking - общий порядок для выбора лучшей поездки
func Ranking(clockwise bool) Comparator {
	first := CompareArrival
	if !clockwise {
		first = CompareDeparture
	}
	return Chain(first, CompareDuration, CompareTransfers, CompareFallback)
}

// BestJourney выбирает лучшую поездку. При равенстве остается более ранняя во входном списке.
func BestJourney(candidates []*domain.Journey, clockwise bool) *domain.Journey {
	return bestBy(candidates, Ranking(clockwise))
}

func bestBy(candidates []*domain.Journey, cmp Comparator) *domain.Journey {
	var best *domain.Journey
	for _, j := range candidates {
		if best == nil || cmp(j, best) < 0 {
			best = j
		}
	}
	return best
}
