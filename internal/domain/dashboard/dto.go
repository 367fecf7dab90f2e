package dashboard

// ========== TODAY STATS ==========

// TodayStatsRequest selects the reference day; an empty Date means today.
type TodayStatsRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// TodayStatsResponse is the organization-wide tally for one business day.
// OnTime and LateArrivals leave a gap between the two thresholds: a
// check-in inside it is counted in neither.
type TodayStatsResponse struct {
	TotalEmployees int64  `json:"total_employees"`
	TotalArrived   int64  `json:"total_arrived"`
	OnTime         int64  `json:"on_time"`
	LateArrivals   int64  `json:"late_arrivals"`
	EarlyDeparture int64  `json:"early_departure"` // check-ins before the on-time threshold
	Absent         int64  `json:"absent"`
	Date           string `json:"date"`  // Format: "YYYY-MM-DD"
	AsOf           string `json:"as_of"` // RFC 3339 in the reference timezone
}
