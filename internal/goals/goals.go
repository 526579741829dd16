// Package goals simulates progress toward savings goals.
//
// Simulation walks forward one calendar month at a time, applying the
// goal's monthly contribution until the target is reached. A goal with no
// positive contribution and an unmet target can never complete, so its
// completion date is undefined rather than infinitely far away.
package goals

import (
	"fmt"
	"time"

	"github.com/AldyLoing/FinSight/internal/models"

	"github.com/shopspring/decimal"
)

// Simulation describes the projected outcome for one goal
type Simulation struct {
	Goal            *models.Goal    `json:"goal"`
	MonthsToTarget  *int            `json:"months_to_target,omitempty"`
	CompletionDate  *time.Time      `json:"completion_date,omitempty"`
	IsAchievable    bool            `json:"is_achievable"`
	ProgressPercent float64         `json:"progress_percent"`
	Projection      []ProgressPoint `json:"projection,omitempty"`
}

// ProgressPoint is one simulated month of goal progress
type ProgressPoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// Recommendation suggests a contribution adjustment for a goal
type Recommendation struct {
	GoalID          string          `json:"goal_id"`
	GoalName        string          `json:"goal_name"`
	Message         string          `json:"message"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
}

// Config holds tuning options for goal simulation
type Config struct {
	// MaxMonths caps the simulation length
	MaxMonths int

	// AsOf anchors "today"; the zero value means time.Now()
	AsOf time.Time
}

// DefaultConfig returns the default goal simulation configuration
func DefaultConfig() *Config {
	return &Config{MaxMonths: 600}
}

// Simulator projects goal completion timelines
type Simulator struct {
	config *Config
}

// NewSimulator creates a Simulator with the given configuration
func NewSimulator(config *Config) *Simulator {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxMonths <= 0 {
		config.MaxMonths = DefaultConfig().MaxMonths
	}
	return &Simulator{config: config}
}

func (s *Simulator) asOf() time.Time {
	if s.config.AsOf.IsZero() {
		return time.Now()
	}
	return s.config.AsOf
}

// Simulate projects a single goal to completion. Already-met goals complete
// immediately; goals with no positive contribution are reported as not
// achievable with an undefined completion date.
func (s *Simulator) Simulate(goal *models.Goal) *Simulation {
	now := s.asOf()
	result := &Simulation{
		Goal:            goal,
		ProgressPercent: ProgressPercent(goal),
	}

	if goal.IsMet() {
		zero := 0
		completion := now
		result.MonthsToTarget = &zero
		result.CompletionDate = &completion
		result.IsAchievable = true
		return result
	}

	if !goal.MonthlyContribution.IsPositive() {
		result.IsAchievable = false
		return result
	}

	balance := goal.CurrentAmount
	months := 0
	projection := make([]ProgressPoint, 0)

	for balance.LessThan(goal.TargetAmount) && months < s.config.MaxMonths {
		months++
		balance = balance.Add(goal.MonthlyContribution)
		if balance.GreaterThan(goal.TargetAmount) {
			balance = goal.TargetAmount
		}
		projection = append(projection, ProgressPoint{
			Date:    now.AddDate(0, months, 0),
			Balance: balance,
		})
	}

	if balance.LessThan(goal.TargetAmount) {
		result.IsAchievable = false
		result.Projection = projection
		return result
	}

	completion := now.AddDate(0, months, 0)
	result.MonthsToTarget = &months
	result.CompletionDate = &completion
	result.Projection = projection
	result.IsAchievable = goal.TargetDate == nil || !completion.After(*goal.TargetDate)
	return result
}

// SimulateAll projects every goal, preserving input order
func (s *Simulator) SimulateAll(goals []*models.Goal) []*Simulation {
	results := make([]*Simulation, 0, len(goals))
	for _, goal := range goals {
		results = append(results, s.Simulate(goal))
	}
	return results
}

// RequiredMonthlySavings computes the contribution needed to reach the goal
// by its target date. Returns zero when the goal is met, and the full
// remaining amount when the target date is in the current month or past.
func (s *Simulator) RequiredMonthlySavings(goal *models.Goal) decimal.Decimal {
	if goal.IsMet() {
		return decimal.Zero
	}
	remaining := goal.Remaining()
	if goal.TargetDate == nil {
		return decimal.Zero
	}

	now := s.asOf()
	months := monthsBetween(now, *goal.TargetDate)
	if months < 1 {
		return remaining.Round(2)
	}
	return remaining.Div(decimal.NewFromInt(int64(months))).Round(2)
}

// Recommend produces contribution advice for goals that are off track
func (s *Simulator) Recommend(goals []*models.Goal) []Recommendation {
	recommendations := make([]Recommendation, 0)
	for _, goal := range goals {
		simulation := s.Simulate(goal)
		if simulation.IsAchievable {
			continue
		}

		if !goal.MonthlyContribution.IsPositive() {
			required := s.RequiredMonthlySavings(goal)
			message := fmt.Sprintf("%s has no monthly contribution set", goal.Name)
			if required.IsPositive() {
				message = fmt.Sprintf("%s needs a monthly contribution of %s to reach its target date",
					goal.Name, required.StringFixed(2))
			}
			recommendations = append(recommendations, Recommendation{
				GoalID:          goal.ID,
				GoalName:        goal.Name,
				Message:         message,
				SuggestedAmount: required,
			})
			continue
		}

		required := s.RequiredMonthlySavings(goal)
		recommendations = append(recommendations, Recommendation{
			GoalID:   goal.ID,
			GoalName: goal.Name,
			Message: fmt.Sprintf("%s will miss its target date at the current pace; raise the contribution to %s",
				goal.Name, required.StringFixed(2)),
			SuggestedAmount: required,
		})
	}
	return recommendations
}

// ProgressPercent reports goal completion as a percentage, capped at 100
func ProgressPercent(goal *models.Goal) float64 {
	if !goal.TargetAmount.IsPositive() {
		return 0
	}
	percent := goal.CurrentAmount.Div(goal.TargetAmount).InexactFloat64() * 100
	if percent > 100 {
		return 100
	}
	return percent
}

// monthsBetween counts whole calendar months from one date to another
func monthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	months := int(to.Month()) - int(from.Month())
	return years*12 + months
}
