package state

// UserState is the user's current position in a multi-step dialog.
type UserState string

const (
	StateNone UserState = ""

	// Steps of the /search criteria dialog
	StateSearchDeparture UserState = "search_departure"
	StateSearchArrival   UserState = "search_arrival"
	StateSearchDate      UserState = "search_date"
	StateSearchWindow    UserState = "search_window"
	StateSearchClasses   UserState = "search_classes"
	StateSearchConfirm   UserState = "search_confirm"
)

// UserData carries the state plus the scratch values collected so far.
type UserData struct {
	State UserState
	Data  map[string]any
}
