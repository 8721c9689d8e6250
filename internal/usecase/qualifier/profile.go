package qualifier

import "github.com/journey-planner/internal/domain"

// Label - итоговый тип поездки для клиента
const (
	LabelRapid   = "rapid"
	LabelComfort = "comfort"
	LabelHealthy = "healthy"
	LabelCar     = "car"
)

// Raw types, которые возвращает planner backend
const (
	RawBest             = "best"
	RawFastest          = "fastest"
	RawComfort          = "comfort"
	RawLessFallbackWalk = "less_fallback_walk"
	RawLessFallbackBike = "less_fallback_bike"
	RawLessFallbackBss  = "less_fallback_bss"
)

// Rule - метка и упорядоченные по приоритету raw types
type Rule struct {
	Label   string
	Buckets []string
}

// Profile - профиль путешественника: допустимые режимы, скорости и правила разметки
type Profile struct {
	Name       string
	Modes      []domain.FallbackMode
	Speeds     map[domain.FallbackMode]float64
	Wheelchair bool
	Rules      []Rule
}

// Allows - разрешен ли режим профилем
func (p Profile) Allows(mode domain.FallbackMode) bool {
	for _, m := range p.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

const DefaultProfile = "standard"

var profiles = map[string]Profile{
	"standard": {
		Name:  "standard",
		Modes: domain.AllFallbackModes,
		Rules: []Rule{
			{Label: LabelRapid, Buckets: []string{RawBest}},
			{Label: LabelComfort, Buckets: []string{RawLessFallbackWalk, RawLessFallbackBss}},
			{Label: LabelHealthy, Buckets: []string{domain.NonPtType(domain.ModeWalking), domain.NonPtType(domain.ModeBss), RawComfort, RawFastest}},
		},
	},
	"slow_walker": {
		Name:   "slow_walker",
		Modes:  []domain.FallbackMode{domain.ModeWalking, domain.ModeBss},
		Speeds: map[domain.FallbackMode]float64{domain.ModeWalking: 0.83},
		Rules: []Rule{
			{Label: LabelRapid, Buckets: []string{RawBest}},
			{Label: LabelComfort, Buckets: []string{RawLessFallbackWalk}},
			{Label: LabelHealthy, Buckets: []string{domain.NonPtType(domain.ModeWalking)}},
		},
	},
	"fast_walker": {
		Name:   "fast_walker",
		Modes:  []domain.FallbackMode{domain.ModeWalking, domain.ModeBike, domain.ModeBss},
		Speeds: map[domain.FallbackMode]float64{domain.ModeWalking: 1.39},
		Rules: []Rule{
			{Label: LabelRapid, Buckets: []string{RawBest}},
			{Label: LabelHealthy, Buckets: []string{domain.NonPtType(domain.ModeWalking), domain.NonPtType(domain.ModeBss)}},
			{Label: LabelComfort, Buckets: []string{RawLessFallbackWalk}},
		},
	},
	"luggage": {
		Name:   "luggage",
		Modes:  []domain.FallbackMode{domain.ModeWalking, domain.ModeTaxi},
		Speeds: map[domain.FallbackMode]float64{domain.ModeWalking: 0.83},
		Rules: []Rule{
			{Label: LabelRapid, Buckets: []string{RawBest}},
			{Label: LabelComfort, Buckets: []string{RawLessFallbackWalk, RawComfort}},
		},
	},
	"wheelchair": {
		Name:       "wheelchair",
		Modes:      []domain.FallbackMode{domain.ModeWalking},
		Speeds:     map[domain.FallbackMode]float64{domain.ModeWalking: 0.83},
		Wheelchair: true,
		Rules: []Rule{
			{Label: LabelRapid, Buckets: []string{RawBest}},
			{Label: LabelComfort, Buckets: []string{RawComfort, RawLessFallbackWalk}},
		},
	},
	"cyclist": {
		Name:   "cyclist",
		Modes:  []domain.FallbackMode{domain.ModeWalking, domain.ModeBike, domain.ModeBss},
		Speeds: map[domain.FallbackMode]float64{domain.ModeBike: 4.1},
		Rules: []Rule{
			{Label: LabelRapid, Buckets: []string{RawBest}},
			{Label: LabelComfort, Buckets: []string{RawLessFallbackBike, RawLessFallbackBss}},
			{Label: LabelHealthy, Buckets: []string{domain.NonPtType(domain.ModeBike), domain.NonPtType(domain.ModeBss)}},
		},
	},
	"motorist": {
		Name:  "motorist",
		Modes: []domain.FallbackMode{domain.ModeWalking, domain.ModeCar, domain.ModeCarNoPark},
		Rules: []Rule{
			{Label: LabelRapid, Buckets: []string{RawBest}},
			{Label: LabelComfort, Buckets: []string{RawLessFallbackWalk}},
			{Label: LabelCar, Buckets: []string{domain.NonPtType(domain.ModeCar)}},
		},
	},
}

// LookupProfile возвращает профиль по имени, неизвестное имя - standard
func LookupProfile(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[DefaultProfile]
}

// ProfileNames - все известные профили
func ProfileNames() []string {
	return []string{"standard", "slow_walker", "fast_walker", "luggage", "wheelchair", "cyclist", "motorist"}
}
