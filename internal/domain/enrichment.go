package domain

import "time"

// Stands - состояние станции велопроката
type Stands struct {
	AvailableBikes  int    `json:"available_bikes"`
	AvailablePlaces int    `json:"available_places"`
	TotalStands     int    `json:"total_stands"`
	Status          string `json:"status"`
}

// ParkingAvailability - заполненность парковки
type ParkingAvailability struct {
	Available    int    `json:"available"`
	Occupied     int    `json:"occupied"`
	AvailablePRM int    `json:"available_PRM,omitempty"`
	Status       string `json:"status,omitempty"`
}

// EquipmentReport - состояние лифтов/эскалаторов на остановке
type EquipmentReport struct {
	StopPointURI string    `json:"stop_point"`
	EquipmentID  string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"embedded_type"`
	Status       string    `json:"current_availability"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// RidesharingOffer - предложение попутчика
type RidesharingOffer struct {
	ID             string     `json:"id"`
	Operator       string     `json:"operator"`
	DriverAlias    string     `json:"driver,omitempty"`
	Price          float64    `json:"price"`
	Currency       string     `json:"currency"`
	PickupTime     time.Time  `json:"pickup_date_time"`
	DropoffTime    time.Time  `json:"dropoff_date_time"`
	Pickup         Coordinate `json:"pickup"`
	Dropoff        Coordinate `json:"dropoff"`
	AvailableSeats int        `json:"seats"`
}

// Passage - ближайшее отправление по данным реального времени
type Passage struct {
	StopPointURI string    `json:"stop_point"`
	LineURI      string    `json:"line"`
	Direction    string    `json:"direction,omitempty"`
	DateTime     time.Time `json:"date_time"`
	IsRealtime   bool      `json:"is_realtime"`
}
