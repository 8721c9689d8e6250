package domain

// Outcome - тег результата одной ветки вычисления
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNoRoute
	OutcomeTransportFault
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoRoute:
		return "no_route"
	case OutcomeTransportFault:
		return "transport_fault"
	}
	return "unknown"
}

// BranchResult - результат одной пары режимов: либо поездки, либо
// функциональный отказ (NoRoute), либо сбой транспорта. Вызывающий код
// не может спутать отсутствие маршрута с сигналом о здоровье backend'а.
type BranchResult struct {
	Modes          ModePair
	Outcome        Outcome
	Journeys       []*Journey
	NoRoute        *NoSolutionError
	Err            error
	FeedPublishers []FeedPublisher
}

// Ok - конструктор успешного результата
func Ok(modes ModePair, journeys []*Journey, feeds []FeedPublisher) BranchResult {
	return BranchResult{Modes: modes, Outcome: OutcomeOK, Journeys: journeys, FeedPublishers: feeds}
}

// NoRoute - конструктор функционального отказа
func NoRoute(modes ModePair, reason *NoSolutionError) BranchResult {
	return BranchResult{Modes: modes, Outcome: OutcomeNoRoute, NoRoute: reason, Err: reason}
}

// TransportFault - конструктор сбоя транспорта
func TransportFault(modes ModePair, err error) BranchResult {
	return BranchResult{Modes: modes, Outcome: OutcomeTransportFault, Err: err}
}
