package domain

import "time"

// GameRecord is a persisted game against one event log.
type GameRecord struct {
	ID           string
	LogPath      string
	InstanceID   string
	Status       GameStatus
	Policy       EditPolicy
	UserSchedule Schedule
	LastValid    Schedule
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
