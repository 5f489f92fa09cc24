package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MaxWaterIntake = 8
	MaxSleepHours  = 12.0
	MaxProgress    = 100

	// StaleAfterDays is the staleness window for the skill record.
	StaleAfterDays = 7

	periodDateLayout = "2006-01-02"
)

var ErrInvalidDate = errors.New("model: invalid date")

type Meals struct {
	Breakfast string
	Lunch     string
	Dinner    string
}

type HealthRecord struct {
	WaterIntake    int
	SleepHours     float64
	Mood           string
	LastPeriodDate string
	Meals          Meals
}

func DefaultHealth() HealthRecord {
	return HealthRecord{SleepHours: 7}
}

// Clamped returns a copy with water and sleep forced into range and sleep
// snapped to the nearest half hour.
func (h HealthRecord) Clamped() HealthRecord {
	h.WaterIntake = ClampWater(h.WaterIntake)
	h.SleepHours = ClampSleep(h.SleepHours)
	return h
}

func ClampWater(v int) int {
	return clampInt(v, 0, MaxWaterIntake)
}

func ClampSleep(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxSleepHours {
		v = MaxSleepHours
	}
	return math.Round(v*2) / 2
}

func ClampProgress(v int) int {
	return clampInt(v, 0, MaxProgress)
}

// ValidatePeriodDate accepts an empty string or a calendar date (YYYY-MM-DD).
func ValidatePeriodDate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := time.Parse(periodDateLayout, raw); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return nil
}

type SkillRecord struct {
	CurrentSkill string
	Progress     int
	LastUpdate   time.Time
}

func DefaultSkill(now time.Time) SkillRecord {
	return SkillRecord{LastUpdate: now.UTC()}
}

func (s SkillRecord) Clamped() SkillRecord {
	s.Progress = ClampProgress(s.Progress)
	return s
}

type Staleness struct {
	DaysSince   int
	NeedsUpdate bool
}

// DaysUntilCheckIn is meaningful only while the record is fresh.
func (s Staleness) DaysUntilCheckIn() int {
	return StaleAfterDays - s.DaysSince
}

// Staleness is evaluated against now on every call and never stored.
// A LastUpdate in the future yields a negative DaysSince.
func (s SkillRecord) Staleness(now time.Time) Staleness {
	elapsed := now.Sub(s.LastUpdate)
	days := int(math.Floor(float64(elapsed) / float64(24*time.Hour)))
	return Staleness{
		DaysSince:   days,
		NeedsUpdate: days >= StaleAfterDays,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
