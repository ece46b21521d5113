package catalog

import "github.com/Zerohidz/tcdd-alarm-bot/internal/model"

// Cabin class ids as used by the ticketing API. The catalog is fixed:
// unknown ids coming back from the API are ignored by the filter.
const (
	CabinClassEconomy    int64 = 1
	CabinClassBusiness   int64 = 2
	CabinClassSleeper    int64 = 3
	CabinClassCouchette  int64 = 4
	CabinClassLoca       int64 = 5
	CabinClassWheelchair int64 = 6
)

var cabinClasses = []model.CabinClass{
	{ID: CabinClassEconomy, Code: "Y1", Name: "EKONOMİ"},
	{ID: CabinClassBusiness, Code: "C", Name: "BUSINESS"},
	{ID: CabinClassSleeper, Code: "YT", Name: "YATAKLI"},
	{ID: CabinClassCouchette, Code: "KS", Name: "KUŞETLİ"},
	{ID: CabinClassLoca, Code: "LC", Name: "LOCA"},
	{ID: CabinClassWheelchair, Code: "TS", Name: "TEKERLEKLİ SANDALYE"},
}

// CabinClasses returns the full catalog in display order.
func CabinClasses() []model.CabinClass {
	out := make([]model.CabinClass, len(cabinClasses))
	copy(out, cabinClasses)
	return out
}

// CabinClassByID resolves a catalog entry; ok is false for unknown ids.
func CabinClassByID(id int64) (model.CabinClass, bool) {
	for _, c := range cabinClasses {
		if c.ID == id {
			return c, true
		}
	}
	return model.CabinClass{}, false
}
