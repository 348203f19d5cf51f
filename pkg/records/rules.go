package records

import (
	"math"
	"sort"
	"strings"

	"rallytimesbot/pkg/model"

	"github.com/pkg/errors"
)

// Policy holds the rules that can be changed per deployment.
type Policy struct {
	AllowNegativePenalties bool
}

func NormalizeStage(stage string) string {
	if strings.TrimSpace(stage) == "" {
		return model.DefaultStage
	}
	return stage
}

func matches(r model.StageRecord, driver, stage string) bool {
	return strings.EqualFold(r.Driver, driver) && r.Stage == stage
}

func indexOf(records []model.StageRecord, driver, stage string) int {
	for i, r := range records {
		if matches(r, driver, stage) {
			return i
		}
	}
	return -1
}

func validTime(t float64) bool {
	return t > 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}

// Insert validates candidate and returns a new collection with it appended.
// The input slice is never modified.
func Insert(records []model.StageRecord, candidate model.StageRecord) ([]model.StageRecord, model.StageRecord, error) {
	if strings.TrimSpace(candidate.Driver) == "" || strings.TrimSpace(candidate.Car) == "" {
		return records, candidate, validationf("driver and car are required")
	}
	if !validTime(candidate.ElapsedSeconds) {
		return records, candidate, validationf("elapsed time must be positive, got %v", candidate.ElapsedSeconds)
	}
	candidate.Stage = NormalizeStage(candidate.Stage)

	if indexOf(records, candidate.Driver, candidate.Stage) >= 0 {
		return records, candidate, errors.Wrapf(ErrDuplicate, "%s already has a time in %s", candidate.Driver, candidate.Stage)
	}

	out := make([]model.StageRecord, 0, len(records)+1)
	out = append(out, records...)
	out = append(out, candidate)
	return out, candidate, nil
}

// ApplyPenalty adds delta seconds to the record of driver in stage.
func ApplyPenalty(records []model.StageRecord, driver, stage string, delta float64, policy Policy) ([]model.StageRecord, model.StageRecord, error) {
	stage = NormalizeStage(stage)
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return records, model.StageRecord{}, validationf("penalty must be a finite number")
	}
	if delta < 0 && !policy.AllowNegativePenalties {
		return records, model.StageRecord{}, validationf("negative penalties are not allowed (%v)", delta)
	}

	i := indexOf(records, driver, stage)
	if i < 0 {
		return records, model.StageRecord{}, errors.Wrapf(ErrNotFound, "%s in %s", driver, stage)
	}

	updated := records[i]
	updated.ElapsedSeconds += delta
	if !validTime(updated.ElapsedSeconds) {
		return records, records[i], validationf("penalty of %v would leave %s with a non-positive time", delta, records[i].Driver)
	}

	out := make([]model.StageRecord, len(records))
	copy(out, records)
	out[i] = updated
	return out, updated, nil
}

// Remove drops the record of driver in stage, keeping the order of the rest.
func Remove(records []model.StageRecord, driver, stage string) ([]model.StageRecord, model.StageRecord, error) {
	stage = NormalizeStage(stage)
	i := indexOf(records, driver, stage)
	if i < 0 {
		return records, model.StageRecord{}, errors.Wrapf(ErrNotFound, "%s in %s", driver, stage)
	}

	removed := records[i]
	out := make([]model.StageRecord, 0, len(records)-1)
	out = append(out, records[:i]...)
	out = append(out, records[i+1:]...)
	return out, removed, nil
}

// Sorted returns a copy ordered by stage and then by time. Equal keys keep
// insertion order.
func Sorted(records []model.StageRecord) []model.StageRecord {
	out := make([]model.StageRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return out[i].Stage < out[j].Stage
		}
		return out[i].ElapsedSeconds < out[j].ElapsedSeconds
	})
	return out
}

// ByStage returns the records of one stage ordered by time.
func ByStage(records []model.StageRecord, stage string) []model.StageRecord {
	stage = NormalizeStage(stage)
	out := []model.StageRecord{}
	for _, r := range Sorted(records) {
		if r.Stage == stage {
			out = append(out, r)
		}
	}
	return out
}

// Leader returns the record with the lowest time, the first one inserted on ties.
func Leader(records []model.StageRecord) (model.StageRecord, bool) {
	if len(records) == 0 {
		return model.StageRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.ElapsedSeconds < best.ElapsedSeconds {
			best = r
		}
	}
	return best, true
}

// Stats computes the summary of records. ok is false when there is no data.
func Stats(records []model.StageRecord) (model.Stats, bool) {
	leader, ok := Leader(records)
	if !ok {
		return model.Stats{}, false
	}

	seen := map[string]bool{}
	stages := []string{}
	total := 0.0
	for _, r := range records {
		total += r.ElapsedSeconds
		if !seen[r.Stage] {
			seen[r.Stage] = true
			stages = append(stages, r.Stage)
		}
	}

	return model.Stats{
		TotalRecords: len(records),
		BestTime:     leader.ElapsedSeconds,
		Leader:       leader.Driver,
		Stages:       stages,
		AverageTime:  round(total/float64(len(records)), 3),
	}, true
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
