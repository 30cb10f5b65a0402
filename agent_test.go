/*
   Copyright 2024 The goap Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package goap

import (
	"context"
	"testing"

	bt "github.com/joeycumines/go-behaviortree"
)

// Scenario 5: failure -> blacklist -> alternative (spec.md §8.5).
func TestAgent_failureBlacklistsAndReplans(t *testing.T) {
	cheap := NewAction(ActionConfig{
		Name:    "Cheap",
		Effects: State{"X": true},
		Cost:    1,
		Execute: func([]bt.Node) (bt.Status, error) { return bt.Failure, nil },
	})
	expensive := NewAction(ActionConfig{
		Name:    "Expensive",
		Effects: State{"X": true},
		Cost:    99,
	})

	agent := NewAgent("test")
	agent.LoadActions([]Action{cheap, expensive})

	if err := agent.AchieveGoal(context.Background(), State{"X": true}, false); err != nil {
		t.Fatalf("AchieveGoal() error = %v", err)
	}
	if !agent.State.Has("X", true) {
		t.Errorf("agent.State = %v, want X=true", agent.State)
	}
}

// Scenario 6: replanning accumulator loop (spec.md §8.6).
func TestAgent_accumulatorReplanningLoop(t *testing.T) {
	increment := NewAction(ActionConfig{
		Name:    "Increment",
		Effects: State{"counter": Any},
		ApplyEffects: func(outcome, state State) {
			c, _ := state["counter"].(int)
			s, _ := state["sum"].(int)
			state["counter"] = c + 1
			state["sum"] = s + c + 1
		},
	})

	agent := NewAgent("accumulator")
	agent.LoadActions([]Action{increment})
	agent.State = State{"counter": 0, "sum": 0}

	if err := agent.AchieveGoal(context.Background(), State{"counter": 10}, false); err != nil {
		t.Fatalf("AchieveGoal() error = %v", err)
	}
	if agent.State["counter"] != 10 {
		t.Errorf("counter = %v, want 10", agent.State["counter"])
	}
	if agent.State["sum"] != 55 {
		t.Errorf("sum = %v, want 55", agent.State["sum"])
	}
}

func TestAgent_isGoalMet(t *testing.T) {
	agent := NewAgent("")
	agent.State = State{"a": true, "b": 1}
	if !agent.IsGoalMet(State{"a": true}) {
		t.Error("IsGoalMet(subset) = false, want true")
	}
	if agent.IsGoalMet(State{"c": true}) {
		t.Error("IsGoalMet(missing key) = true, want false")
	}
	if !agent.IsGoalMet(State{}) {
		t.Error("IsGoalMet(empty) = false, want true")
	}
}

func TestAgent_getPlanReturnsNilOnPlanningFailure(t *testing.T) {
	agent := NewAgent("")
	plan := agent.GetPlan(State{"unreachable": true}, State{}, nil)
	if plan != nil {
		t.Errorf("GetPlan() = %v, want nil", plan)
	}
}

func TestAgent_loadActionsIdempotent(t *testing.T) {
	a := NewAction(ActionConfig{Name: "A", Effects: State{"x": true}})
	agent := NewAgent("")
	agent.LoadActions([]Action{a})
	plan1 := agent.GetPlan(State{"x": true}, State{}, nil)
	agent.LoadActions([]Action{a})
	plan2 := agent.GetPlan(State{"x": true}, State{}, nil)
	if len(plan1) != len(plan2) || names(plan1)[0] != names(plan2)[0] {
		t.Errorf("LoadActions not idempotent: plan1=%v plan2=%v", names(plan1), names(plan2))
	}
}

func TestAgent_executePlanStopsOnFirstFailure(t *testing.T) {
	fails := NewAction(ActionConfig{
		Name:    "Fails",
		Effects: State{"a": true},
		Execute: func([]bt.Node) (bt.Status, error) { return bt.Failure, nil },
	})
	neverReached := NewAction(ActionConfig{Name: "Never", Effects: State{"b": true}})

	agent := NewAgent("")
	err := agent.ExecutePlan(Plan{fails, neverReached})
	if err == nil {
		t.Fatal("ExecutePlan() error = nil, want ActionFailed")
	}
	if agent.State.Has("b", true) {
		t.Error("ExecutePlan executed past the first failure")
	}
}

func TestAgent_undoCompletedActionsIsLIFO(t *testing.T) {
	var order []string
	first := NewAction(ActionConfig{Name: "First", Effects: State{"a": true}, Undo: func() error {
		order = append(order, "First")
		return nil
	}})
	second := NewAction(ActionConfig{Name: "Second", Effects: State{"b": true}, Undo: func() error {
		order = append(order, "Second")
		return nil
	}})

	agent := NewAgent("")
	if err := agent.ExecutePlan(Plan{first, second}); err != nil {
		t.Fatalf("ExecutePlan() error = %v", err)
	}
	if err := agent.UndoCompletedActions(); err != nil {
		t.Fatalf("UndoCompletedActions() error = %v", err)
	}
	if len(order) != 2 || order[0] != "Second" || order[1] != "First" {
		t.Errorf("undo order = %v, want [Second, First]", order)
	}
}

func TestAgent_abortThenReset(t *testing.T) {
	blocking := NewAction(ActionConfig{
		Name:    "Blocking",
		Effects: State{"done": true},
		Execute: func([]bt.Node) (bt.Status, error) { return bt.Running, nil },
	})

	agent := NewAgent("")
	agent.Abort()
	_, err := agent.executeAction(blocking)
	if _, ok := err.(*ActionAborted); !ok {
		t.Fatalf("executeAction() after Abort error = %v (%T), want *ActionAborted", err, err)
	}

	agent.Reset()
	agent.LoadActions(nil)
	if agent.abort.Load() {
		t.Error("Reset() left abort flag set")
	}
}
