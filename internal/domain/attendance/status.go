package attendance

// Status is the display label of a single record.
type Status string

const (
	StatusActive  Status = "Active"
	StatusLate    Status = "Late"
	StatusPresent Status = "Present"
)

// DefaultExpectedCheckIn is the check-in time after which a closed record is Late.
var DefaultExpectedCheckIn = NewTimeOfDay(9, 0, 0)

// ClassifyStatus labels a record: open records are Active, closed records are
// Late when the check-in came after expectedCheckIn and Present otherwise.
func ClassifyStatus(checkIn TimeOfDay, checkOut *TimeOfDay, expectedCheckIn TimeOfDay) Status {
	if checkOut == nil {
		return StatusActive
	}
	if checkIn > expectedCheckIn {
		return StatusLate
	}
	return StatusPresent
}
