package model

import (
	"fmt"
	"time"
)

const DefaultStage = "SS1"

type StageRecord struct {
	Driver         string  `json:"driver"`
	Car            string  `json:"car"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
	Stage          string  `json:"stage"`
}

func (r StageRecord) String() string {
	return fmt.Sprintf("%s (%s) %s: %.3fs", r.Driver, r.Car, r.Stage, r.ElapsedSeconds)
}

type Stats struct {
	TotalRecords int      `json:"totalRecords"`
	BestTime     float64  `json:"bestTime"`
	Leader       string   `json:"leader"`
	Stages       []string `json:"stages"`
	AverageTime  float64  `json:"averageTime"`
}

type EventType string

const (
	EventInserted  EventType = "inserted"
	EventPenalized EventType = "penalized"
	EventRemoved   EventType = "removed"
	EventReset     EventType = "reset"
)

// RecordEvent describes a change applied to the records. Leader is the overall
// leader after the change, empty when no records are left.
type RecordEvent struct {
	ID         string       `json:"id"`
	Type       EventType    `json:"type"`
	Record     *StageRecord `json:"record,omitempty"`
	Delta      float64      `json:"delta,omitempty"`
	Leader     string       `json:"leader"`
	LeaderTime float64      `json:"leaderTime"`
	At         time.Time    `json:"at"`
}
