package goals

import (
	"testing"
	"time"

	"github.com/AldyLoing/FinSight/internal/models"

	"github.com/shopspring/decimal"
)

var goalsAsOf = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func createTestGoal(id string, target, current, contribution float64) *models.Goal {
	return &models.Goal{
		ID:                  id,
		Name:                "Goal " + id,
		TargetAmount:        decimal.NewFromFloat(target),
		CurrentAmount:       decimal.NewFromFloat(current),
		MonthlyContribution: decimal.NewFromFloat(contribution),
	}
}

func newTestSimulator() *Simulator {
	config := DefaultConfig()
	config.AsOf = goalsAsOf
	return NewSimulator(config)
}

func TestSimulator_Simulate(t *testing.T) {
	simulator := newTestSimulator()

	goal := createTestGoal("goal-1", 1000, 400, 200)
	result := simulator.Simulate(goal)

	if result.MonthsToTarget == nil {
		t.Fatal("Expected months to target, got nil")
	}
	if *result.MonthsToTarget != 3 {
		t.Errorf("Expected 3 months to target, got %d", *result.MonthsToTarget)
	}
	if result.CompletionDate == nil {
		t.Fatal("Expected completion date, got nil")
	}
	expectedCompletion := goalsAsOf.AddDate(0, 3, 0)
	if !result.CompletionDate.Equal(expectedCompletion) {
		t.Errorf("Expected completion %v, got %v", expectedCompletion, result.CompletionDate)
	}
	if !result.IsAchievable {
		t.Error("Expected goal without target date to be achievable")
	}
	if result.ProgressPercent != 40 {
		t.Errorf("Expected 40%% progress, got %f", result.ProgressPercent)
	}
}

func TestSimulator_SimulateCapsProjectionAtTarget(t *testing.T) {
	simulator := newTestSimulator()

	// 400 + 3*250 overshoots 1000; the projected balance must not.
	goal := createTestGoal("goal-1", 1000, 400, 250)
	result := simulator.Simulate(goal)

	if len(result.Projection) != 3 {
		t.Fatalf("Expected 3 projected months, got %d", len(result.Projection))
	}
	final := result.Projection[len(result.Projection)-1]
	if !final.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected final projected balance 1000, got %s", final.Balance)
	}
}

func TestSimulator_SimulateAlreadyMet(t *testing.T) {
	simulator := newTestSimulator()

	goal := createTestGoal("goal-1", 1000, 1000, 0)
	result := simulator.Simulate(goal)

	if result.MonthsToTarget == nil || *result.MonthsToTarget != 0 {
		t.Errorf("Expected 0 months for met goal, got %v", result.MonthsToTarget)
	}
	if result.CompletionDate == nil || !result.CompletionDate.Equal(goalsAsOf) {
		t.Errorf("Expected completion now for met goal, got %v", result.CompletionDate)
	}
	if !result.IsAchievable {
		t.Error("Expected met goal to be achievable")
	}
	if result.ProgressPercent != 100 {
		t.Errorf("Expected 100%% progress, got %f", result.ProgressPercent)
	}
}

func TestSimulator_SimulateZeroContribution(t *testing.T) {
	simulator := newTestSimulator()

	goal := createTestGoal("goal-1", 1000, 400, 0)
	result := simulator.Simulate(goal)

	if result.IsAchievable {
		t.Error("Expected unmet goal without contribution to be unachievable")
	}
	if result.MonthsToTarget != nil {
		t.Errorf("Expected nil months to target, got %d", *result.MonthsToTarget)
	}
	if result.CompletionDate != nil {
		t.Errorf("Expected nil completion date, got %v", result.CompletionDate)
	}
}

func TestSimulator_SimulateTargetDate(t *testing.T) {
	simulator := newTestSimulator()

	tests := []struct {
		name       string
		targetDate time.Time
		achievable bool
	}{
		{"target after completion", goalsAsOf.AddDate(0, 6, 0), true},
		{"target equals completion", goalsAsOf.AddDate(0, 3, 0), true},
		{"target before completion", goalsAsOf.AddDate(0, 2, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := createTestGoal("goal-1", 1000, 400, 200)
			target := tt.targetDate
			goal.TargetDate = &target

			result := simulator.Simulate(goal)

			if result.IsAchievable != tt.achievable {
				t.Errorf("Expected achievable=%v, got %v", tt.achievable, result.IsAchievable)
			}
		})
	}
}

func TestSimulator_SimulateAll(t *testing.T) {
	simulator := newTestSimulator()

	goals := []*models.Goal{
		createTestGoal("goal-1", 1000, 400, 200),
		createTestGoal("goal-2", 5000, 0, 0),
	}
	results := simulator.SimulateAll(goals)

	if len(results) != 2 {
		t.Fatalf("Expected 2 simulations, got %d", len(results))
	}
	if results[0].Goal.ID != "goal-1" || results[1].Goal.ID != "goal-2" {
		t.Error("Expected simulations in input order")
	}
	if !results[0].IsAchievable || results[1].IsAchievable {
		t.Error("Expected first goal achievable and second not")
	}
}

func TestSimulator_RequiredMonthlySavings(t *testing.T) {
	simulator := newTestSimulator()

	goal := createTestGoal("goal-1", 1000, 400, 0)
	target := goalsAsOf.AddDate(0, 6, 0)
	goal.TargetDate = &target

	required := simulator.RequiredMonthlySavings(goal)
	if !required.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected required savings 100, got %s", required)
	}

	// A met goal requires nothing further.
	met := createTestGoal("goal-2", 1000, 1200, 0)
	met.TargetDate = &target
	if !simulator.RequiredMonthlySavings(met).IsZero() {
		t.Error("Expected zero required savings for met goal")
	}

	// A past target date demands the full remainder now.
	past := createTestGoal("goal-3", 1000, 400, 0)
	pastDate := goalsAsOf.AddDate(0, 0, -10)
	past.TargetDate = &pastDate
	required = simulator.RequiredMonthlySavings(past)
	if !required.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected full remaining 600, got %s", required)
	}
}

func TestSimulator_Recommend(t *testing.T) {
	simulator := newTestSimulator()

	target := goalsAsOf.AddDate(0, 4, 0)
	slow := createTestGoal("goal-1", 1000, 400, 100) // needs 6 months, has 4
	slow.TargetDate = &target
	onTrack := createTestGoal("goal-2", 1000, 400, 200)
	idle := createTestGoal("goal-3", 2000, 0, 0)

	recommendations := simulator.Recommend([]*models.Goal{slow, onTrack, idle})

	if len(recommendations) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recommendations))
	}
	if recommendations[0].GoalID != "goal-1" {
		t.Errorf("Expected first recommendation for goal-1, got %s", recommendations[0].GoalID)
	}
	if !recommendations[0].SuggestedAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected suggested amount 150, got %s", recommendations[0].SuggestedAmount)
	}
	if recommendations[1].GoalID != "goal-3" {
		t.Errorf("Expected second recommendation for goal-3, got %s", recommendations[1].GoalID)
	}
}

func TestSimulator_NonConvergence(t *testing.T) {
	config := &Config{MaxMonths: 12, AsOf: goalsAsOf}
	simulator := NewSimulator(config)

	// 0.01/month toward 1000 cannot finish inside the ceiling.
	goal := createTestGoal("goal-1", 1000, 0, 0.01)
	result := simulator.Simulate(goal)

	if result.IsAchievable {
		t.Error("Expected goal hitting the month ceiling to be unachievable")
	}
	if result.MonthsToTarget != nil {
		t.Errorf("Expected nil months to target, got %d", *result.MonthsToTarget)
	}
	if len(result.Projection) != 12 {
		t.Errorf("Expected 12 projected months, got %d", len(result.Projection))
	}
}
