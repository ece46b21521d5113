package tcdd

// Request and response bodies for the four ticketing endpoints. All
// response structs keep intermediate levels optional: the API omits
// whole branches when there is nothing to report, and the filter treats
// any missing branch as "no candidates".

type SearchRoute struct {
	DepartureStationID   int64  `json:"departureStationId"`
	DepartureStationName string `json:"departureStationName"`
	ArrivalStationID     int64  `json:"arrivalStationId"`
	ArrivalStationName   string `json:"arrivalStationName"`
	DepartureDate        string `json:"departureDate"` // DD-MM-YYYY 00:00:00
}

type PassengerTypeCount struct {
	ID    int `json:"id"`
	Count int `json:"count"`
}

type AvailabilityRequest struct {
	SearchRoutes        []SearchRoute        `json:"searchRoutes"`
	PassengerTypeCounts []PassengerTypeCount `json:"passengerTypeCounts"`
	SearchReservation   bool                 `json:"searchReservation"`
	SearchType          string               `json:"searchType"`
	BlTrainTypes        []string             `json:"blTrainTypes"`
}

type AvailabilityResponse struct {
	TrainLegs []TrainLeg `json:"trainLegs"`
}

type TrainLeg struct {
	TrainAvailabilities []TrainAvailability `json:"trainAvailabilities"`
}

type TrainAvailability struct {
	Trains []Train `json:"trains"`
}

type Train struct {
	ID                       int64                    `json:"id"`
	Name                     string                   `json:"name"`
	CommercialName           string                   `json:"commercialName"`
	Segments                 []TrainSegment           `json:"segments"`
	CabinClassAvailabilities []CabinClassAvailability `json:"cabinClassAvailabilities"`
}

type TrainSegment struct {
	DepartureTime int64 `json:"departureTime"` // epoch millis
	ArrivalTime   int64 `json:"arrivalTime"`
}

type CabinClassAvailability struct {
	CabinClass                 *CabinClassRef             `json:"cabinClass"`
	AvailabilityCount          int                        `json:"availabilityCount"`
	ParsedMinPrice             *float64                   `json:"parsedMinPrice"`
	MinPrice                   *float64                   `json:"minPrice"`
	BookingClassAvailabilities []BookingClassAvailability `json:"bookingClassAvailabilities"`
}

type CabinClassRef struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type BookingClassAvailability struct {
	Price *float64 `json:"price"`
}

// ResolvedPrice picks the first price the API actually populated:
// parsed minimum, then the raw minimum field, then the first booking
// class entry. Nil when none is present.
func (c *CabinClassAvailability) ResolvedPrice() *float64 {
	if c.ParsedMinPrice != nil {
		return c.ParsedMinPrice
	}
	if c.MinPrice != nil {
		return c.MinPrice
	}
	if len(c.BookingClassAvailabilities) > 0 {
		return c.BookingClassAvailabilities[0].Price
	}
	return nil
}

type SeatMapRequest struct {
	FromStationID int64 `json:"fromStationId"`
	ToStationID   int64 `json:"toStationId"`
	TrainID       int64 `json:"trainId"`
	LegIndex      int   `json:"legIndex"`
}

type SeatMapResponse struct {
	SeatMaps []SeatMap `json:"seatMaps"`
}

// SeatMap describes one train car: its seat template plus the seats
// already allocated by other passengers.
type SeatMap struct {
	TrainCarID      int64            `json:"trainCarId"`
	TrainCarName    string           `json:"trainCarName"` // e.g. "2. VAGON (YHT)"
	SeatMapTemplate *SeatMapTemplate `json:"seatMapTemplate"`
	AllocationSeats []AllocationSeat `json:"allocationSeats"`
}

type SeatMapTemplate struct {
	SeatMapItems []SeatMapItem `json:"seatMaps"`
}

// SeatMapItem is one slot of the car template. Non-seat slots (tables,
// WC, aisles) carry Saleable=false and usually no seat number.
type SeatMapItem struct {
	ID           int64  `json:"id"`
	SeatNumber   string `json:"seatNumber"`
	CabinClassID int64  `json:"cabinClassId"`
	Saleable     bool   `json:"saleable"`
}

type AllocationSeat struct {
	SeatNumber string `json:"seatNumber"`
}

type AllocateSeatRequest struct {
	TrainCarID          int64  `json:"trainCarId"`
	FromStationID       int64  `json:"fromStationId"`
	ToStationID         int64  `json:"toStationId"`
	Gender              string `json:"gender"`
	SeatNumber          string `json:"seatNumber"`
	PassengerTypeID     int    `json:"passengerTypeId"`
	TotalPassengerCount int    `json:"totalPassengerCount"`
	FareFamilyID        int64  `json:"fareFamilyId"`
}

type AllocateSeatResponse struct {
	AllocationID int64 `json:"allocationId"`
	LockFor      int   `json:"lockFor"` // hold duration in minutes, 0 when omitted
}

type ReleaseSeatRequest struct {
	TrainCarID   int64  `json:"trainCarId"`
	AllocationID int64  `json:"allocationId"`
	SeatNumber   string `json:"seatNumber"`
}

type ReleaseSeatResponse struct {
	Success bool `json:"success"`
}
