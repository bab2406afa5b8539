// Package devotion resolves the devotional week a user is reading and the
// plan entry assigned to it.
package devotion

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/tartampluch/go-devotional/internal/config"
)

var (
	// ErrUnknownPlan is returned for a plan name that has no data key.
	ErrUnknownPlan = errors.New("unknown reading plan")

	// ErrWeekNotFound is returned when the plan has no entry for the week.
	ErrWeekNotFound = errors.New("no reading for week")
)

// planKeys maps the user-facing plan name to its key in the plan data file.
var planKeys = map[string]string{
	config.PlanNewTestament: "F260_NewTestament",
	config.PlanOldTestament: "F260_OldTestament",
	config.PlanWholeBible:   "F260_WholeBible",
}

// PlanKey returns the data key for a plan name.
func PlanKey(plan string) (string, error) {
	key, ok := planKeys[plan]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	return key, nil
}

// Reading is the assignment for one week of a plan.
type Reading struct {
	Plan         []string `json:"plan"`
	MemoryVerses []string `json:"memoryVerses"`
}

// Plans is the decoded plan data file: data key, then week number as a
// decimal string, then the reading.
type Plans map[string]map[string]Reading

// PlanSource looks up a reading by week number and plan name.
type PlanSource interface {
	Lookup(week int, plan string) (Reading, error)
}

// Lookup implements PlanSource.
func (p Plans) Lookup(week int, plan string) (Reading, error) {
	key, err := PlanKey(plan)
	if err != nil {
		return Reading{}, err
	}

	weeks, ok := p[key]
	if !ok {
		return Reading{}, fmt.Errorf("%w: plan %q has no data", ErrUnknownPlan, plan)
	}

	r, ok := weeks[strconv.Itoa(week)]
	if !ok {
		return Reading{}, fmt.Errorf("%w: %d (%s)", ErrWeekNotFound, week, plan)
	}
	return r, nil
}

// DecodePlans reads plan data in JSON form.
func DecodePlans(r io.Reader) (Plans, error) {
	var p Plans
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPlanFile, err)
	}
	return p, nil
}

// LoadPlans reads the plan data file at path.
func LoadPlans(path string) (Plans, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPlanFile, err)
	}
	defer func() { _ = f.Close() }()

	p, err := DecodePlans(f)
	if err != nil {
		return nil, err
	}

	slog.Debug(config.MsgPlanLoaded,
		config.LogKeyComponent, config.CompDevotion,
		config.LogKeyPath, path,
		config.LogKeyCount, len(p))
	return p, nil
}
