package dashboard

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// StatsConfig holds the wall-clock thresholds of the daily tally, all in the
// reference timezone.
type StatsConfig struct {
	OnTime attendance.TimeOfDay // check-in exactly at OnTime is on time, before it early
	Late   attendance.TimeOfDay // check-in at or after Late is a late arrival
	Absent attendance.TimeOfDay // absentees are only counted once today reaches this
}

// DefaultStatsConfig returns 06:00 / 06:15 / 08:00.
func DefaultStatsConfig() StatsConfig {
	return StatsConfig{
		OnTime: attendance.NewTimeOfDay(6, 0, 0),
		Late:   attendance.NewTimeOfDay(6, 15, 0),
		Absent: attendance.NewTimeOfDay(8, 0, 0),
	}
}

// NewStatsConfig parses "HH:MM:SS" thresholds.
func NewStatsConfig(onTime, late, absent string) (StatsConfig, error) {
	var cfg StatsConfig
	var err error

	if cfg.OnTime, err = attendance.ParseTimeOfDay(onTime); err != nil {
		return StatsConfig{}, fmt.Errorf("on-time threshold: %w", err)
	}
	if cfg.Late, err = attendance.ParseTimeOfDay(late); err != nil {
		return StatsConfig{}, fmt.Errorf("late threshold: %w", err)
	}
	if cfg.Absent, err = attendance.ParseTimeOfDay(absent); err != nil {
		return StatsConfig{}, fmt.Errorf("absent threshold: %w", err)
	}
	if cfg.Late < cfg.OnTime {
		return StatsConfig{}, fmt.Errorf("late threshold %s is before on-time threshold %s", cfg.Late, cfg.OnTime)
	}
	return cfg, nil
}
