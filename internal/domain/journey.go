package domain

import (
	"sort"
	"time"
)

// SectionKind - тип участка маршрута
type SectionKind string

const (
	SectionStreetNetwork   SectionKind = "street_network"
	SectionPublicTransport SectionKind = "public_transport"
	SectionTransfer        SectionKind = "transfer"
	SectionWaiting         SectionKind = "waiting"
	SectionCrowFly         SectionKind = "crow_fly"
	SectionPark            SectionKind = "park"
	SectionLeaveParking    SectionKind = "leave_parking"
)

// Section - участок маршрута
type Section struct {
	ID            string       `json:"id"`
	Kind          SectionKind  `json:"type"`
	Mode          FallbackMode `json:"mode,omitempty"`
	Origin        Place        `json:"from"`
	Destination   Place        `json:"to"`
	BeginDateTime time.Time    `json:"departure_date_time"`
	EndDateTime   time.Time    `json:"arrival_date_time"`
	Duration      int          `json:"duration"`
	LineURI       string       `json:"line,omitempty"`
	Geometry      [][2]float64 `json:"geometry,omitempty"`

	Stands            *Stands              `json:"stands,omitempty"`
	DropoffStands     *Stands              `json:"dropoff_stands,omitempty"`
	Parking           *ParkingAvailability `json:"parking,omitempty"`
	Equipments        []EquipmentReport    `json:"equipments,omitempty"`
	Realtime          *Passage             `json:"realtime,omitempty"`
	RidesharingOffers []RidesharingOffer   `json:"ridesharing_offers,omitempty"`
}

// IsFallback - участок без общественного транспорта
func (s Section) IsFallback() bool {
	switch s.Kind {
	case SectionStreetNetwork, SectionCrowFly, SectionPark, SectionLeaveParking:
		return true
	}
	return false
}

// Journey - вариант поездки
type Journey struct {
	// InternalID проставляется PtJourneyPool для трассировки
	InternalID        string    `json:"internal_id,omitempty"`
	RawType           string    `json:"raw_type,omitempty"`
	Type              string    `json:"type"`
	Tags              []string  `json:"tags"`
	Sections          []Section `json:"sections"`
	DepartureDateTime time.Time `json:"departure_date_time"`
	ArrivalDateTime   time.Time `json:"arrival_date_time"`
	Duration          int       `json:"duration"`
	NbTransfers       int       `json:"nb_transfers"`
	Modes             ModePair  `json:"-"`
}

// HasPublicTransport - есть ли хотя бы один участок на ОТ
func (j *Journey) HasPublicTransport() bool {
	for _, s := range j.Sections {
		if s.Kind == SectionPublicTransport {
			return true
		}
	}
	return false
}

// FallbackDuration - суммарное время участков без ОТ
func (j *Journey) FallbackDuration() int {
	total := 0
	for _, s := range j.Sections {
		if s.IsFallback() {
			total += s.Duration
		}
	}
	return total
}

// AddTag добавляет тег без дублей
func (j *Journey) AddTag(tag string) {
	for _, t := range j.Tags {
		if t == tag {
			return
		}
	}
	j.Tags = append(j.Tags, tag)
}

// Retime сортирует участки по (begin, end) и пересчитывает границы и длительность поездки
func (j *Journey) Retime() {
	sort.SliceStable(j.Sections, func(a, b int) bool {
		sa, sb := j.Sections[a], j.Sections[b]
		if !sa.BeginDateTime.Equal(sb.BeginDateTime) {
			return sa.BeginDateTime.Before(sb.BeginDateTime)
		}
		return sa.EndDateTime.Before(sb.EndDateTime)
	})
	if len(j.Sections) == 0 {
		j.Duration = int(j.ArrivalDateTime.Sub(j.DepartureDateTime) / time.Second)
		return
	}
	departure := j.Sections[0].BeginDateTime
	arrival := j.Sections[0].EndDateTime
	for _, s := range j.Sections {
		if s.BeginDateTime.Before(departure) {
			departure = s.BeginDateTime
		}
		if s.EndDateTime.After(arrival) {
			arrival = s.EndDateTime
		}
	}
	j.DepartureDateTime = departure
	j.ArrivalDateTime = arrival
	j.Duration = int(arrival.Sub(departure) / time.Second)
}
