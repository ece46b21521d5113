package handlers

// Dialog scratch data keys.
const (
	dataDepartureID   = "departure_id"
	dataDepartureName = "departure_name"
	dataArrivalID     = "arrival_id"
	dataArrivalName   = "arrival_name"
	dataDate          = "date"
	dataTimeStart     = "time_start"
	dataTimeEnd       = "time_end"
	dataClassIDs      = "class_ids"
)

// Callback data prefixes for inline keyboards.
const (
	cbClassToggle  = "class:"
	cbClassesDone  = "classes_done"
	cbConfirmStart = "confirm_start"
	cbConfirmSave  = "confirm_save"
	cbConfirmAbort = "confirm_abort"
	cbAlarmRun     = "alarm_run:"
	cbAlarmDelete  = "alarm_del:"
)

const maxStationSuggestions = 6
