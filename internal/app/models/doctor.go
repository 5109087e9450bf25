package models

// Doctor is the bookable aggregate. SlotsBooked maps a calendar-date key
// ("day_month_year", no leading zeros) to the occupied time strings of that
// date; a time string appears at most once per date key. Only the reservation
// flow mutates SlotsBooked, always through a version-checked update keyed on
// SlotVersion.
type Doctor struct {
	ID          string              `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Speciality  string              `json:"speciality" bson:"speciality"`
	Degree      string              `json:"degree" bson:"degree"`
	Experience  string              `json:"experience" bson:"experience"`
	About       string              `json:"about" bson:"about"`
	Fees        float64             `json:"fees" bson:"fees"`
	Available   bool                `json:"available" bson:"available"`
	SlotsBooked map[string][]string `json:"slots_booked" bson:"slots_booked"`
	SlotVersion int64               `json:"-" bson:"slot_version"`
	TimeModel   `bson:",inline"`
}

// IsSlotBooked reports whether the (dateKey, timeSlot) pair is occupied.
func (d *Doctor) IsSlotBooked(dateKey, timeSlot string) bool {
	for _, booked := range d.SlotsBooked[dateKey] {
		if booked == timeSlot {
			return true
		}
	}
	return false
}

// Snapshot freezes the doctor fields that appointments denormalize at booking
// time. Receipts keep showing the fee and name agreed at booking even if the
// doctor record changes later.
func (d *Doctor) Snapshot() DoctorSnapshot {
	return DoctorSnapshot{
		ID:         d.ID,
		Name:       d.Name,
		Speciality: d.Speciality,
		Degree:     d.Degree,
		Fees:       d.Fees,
	}
}

type DoctorSnapshot struct {
	ID         string  `json:"id" bson:"id"`
	Name       string  `json:"name" bson:"name"`
	Speciality string  `json:"speciality" bson:"speciality"`
	Degree     string  `json:"degree" bson:"degree"`
	Fees       float64 `json:"fees" bson:"fees"`
}
