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
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Agent drives plan execution step by step against a live, mutable State,
// per §4.4. It owns the registered action library, the planner built over
// it, the completed-actions rollback stack, and the table of in-flight
// asynchronous actions.
type Agent struct {
	// Name identifies the agent in log output; defaults to "agent" if
	// unset at construction.
	Name string

	// State is the agent's live world state: callers may read or replace
	// it directly (e.g. to reset between scenarios), per §6.
	State State

	mu           sync.Mutex
	actions      []Action
	planner      *Planner
	completed    []Action
	asyncPending map[string]*asyncHandle
	abort        atomic.Bool
}

// NewAgent constructs an Agent with an empty State and no registered
// actions.
func NewAgent(name string) *Agent {
	if name == "" {
		name = "agent"
	}
	return &Agent{
		Name:    name,
		State:   State{},
		planner: NewPlanner(nil),
	}
}

// LoadActions refreshes/reloads the set of actions available to the
// planner. Calling it twice with the same list is idempotent.
func (a *Agent) LoadActions(actions []Action) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append([]Action(nil), actions...)
	a.planner.UpdateActions(a.actions)
}

// UpdateState merges partial into the agent's current State.
func (a *Agent) UpdateState(partial State) {
	if a.State == nil {
		a.State = State{}
	}
	a.State.Merge(partial)
}

// IsGoalMet reports whether every key/value pair of goal already holds in
// the agent's current State. An empty goal is always met.
func (a *Agent) IsGoalMet(goal State) bool {
	return a.State.Satisfies(goal)
}

// GetPlan generates a plan for goal. If startState is nil the agent's
// current State is used; if actions is non-nil the planner is refreshed
// with it first. Planning failure is logged and reported as a nil plan,
// never an error, matching §6's get_plan contract.
func (a *Agent) GetPlan(goal, startState State, actions []Action) Plan {
	a.mu.Lock()
	defer a.mu.Unlock()

	if startState == nil {
		startState = a.State
	}
	if actions != nil {
		a.actions = actions
		a.planner.UpdateActions(actions)
	}

	plan, err := a.planner.GeneratePlan(goal, startState, nil)
	if err != nil {
		log.Printf("[%s] planning failed: %v", a.Name, err)
		return nil
	}
	return plan
}

// ExecutePlan runs plan to completion sequentially, with no replanning: if
// any step fails, ExecutePlan returns the error immediately.
func (a *Agent) ExecutePlan(plan Plan) error {
	for _, act := range plan {
		status, err := a.executeAction(act)
		if err != nil {
			return err
		}
		if status == StatusSuccess || status == StatusNeutral {
			a.pushCompleted(act)
		}
	}
	return nil
}

// Abort raises the agent's abort flag; the next poll tick of any in-flight
// action observes it and forces status ABORTED. It does not pre-empt
// in-flight user code.
func (a *Agent) Abort() { a.abort.Store(true) }

// Reset clears the abort flag raised by Abort.
func (a *Agent) Reset() { a.abort.Store(false) }

// UndoCompletedActions pops the LIFO completed-actions stack, invoking
// each Undo in reverse execution order. A non-nil Undo error halts further
// rollback, per §4.4.
func (a *Agent) UndoCompletedActions() error {
	a.mu.Lock()
	stack := a.completed
	a.completed = nil
	a.mu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		if err := stack[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) pushCompleted(act Action) {
	a.mu.Lock()
	a.completed = append(a.completed, act)
	a.mu.Unlock()
}

// PlanAndExecute drives goal to completion, yielding the plan computed
// before each step on the returned Plan channel (so a caller can inspect
// or log it, per §6's streaming plan_and_execute) and reporting the final
// outcome (nil on success) on the returned error channel exactly once,
// after which both channels are closed.
func (a *Agent) PlanAndExecute(ctx context.Context, goal State, verbose bool) (<-chan Plan, <-chan error) {
	plans := make(chan Plan)
	result := make(chan error, 1)

	go func() {
		defer close(plans)
		defer close(result)

		runID := uuid.NewString()
		blacklist := map[string]bool{}

		for !a.IsGoalMet(goal) {
			select {
			case <-ctx.Done():
				a.undoAndAbort(runID)
				result <- ctx.Err()
				return
			default:
			}

			a.mu.Lock()
			plan, err := a.planner.GeneratePlan(goal, a.State, blacklist)
			a.mu.Unlock()
			if err != nil {
				log.Printf("[%s] run=%s planning failed: %v", a.Name, runID, err)
				a.undoAndAbort(runID)
				result <- err
				return
			}
			if len(plan) == 0 {
				// goal already met by the time we reacquired state; loop
				// condition will exit on the next check.
				continue
			}

			if verbose {
				logPlan(a.Name, runID, plan)
			}

			select {
			case plans <- plan:
			case <-ctx.Done():
				a.undoAndAbort(runID)
				result <- ctx.Err()
				return
			}

			first := plan[0]
			status, execErr := a.executeAction(first)

			a.liftBlacklist(first, blacklist)

			if status == StatusFailure {
				log.Printf("[%s] run=%s action %q failed, blacklisting and replanning", a.Name, runID, first.Name())
				blacklist[first.Name()] = true
				continue
			}
			if execErr != nil {
				log.Printf("[%s] run=%s execution error: %v", a.Name, runID, execErr)
				a.undoAndAbort(runID)
				result <- execErr
				return
			}
			if status == StatusSuccess || status == StatusNeutral {
				a.pushCompleted(first)
			}
		}

		a.finishSuccessfully(runID)
		result <- nil
	}()

	return plans, result
}

// AchieveGoal is the non-streaming form of PlanAndExecute: it drains the
// plan channel internally and returns only the final outcome.
func (a *Agent) AchieveGoal(ctx context.Context, goal State, verbose bool) error {
	plans, result := a.PlanAndExecute(ctx, goal, verbose)
	for range plans {
		// discard; verbose logging already happened inside PlanAndExecute
	}
	return <-result
}

// liftBlacklist implements the blacklist-lifecycle rule of §4.4: after any
// action is executed (whatever its outcome), each blacklisted action whose
// effect keys include every effect key of the executed action is unblocked.
func (a *Agent) liftBlacklist(executed Action, blacklist map[string]bool) {
	a.mu.Lock()
	actions := a.actions
	a.mu.Unlock()

	executedKeys := effectKeySet(executed.Effects())
	for _, candidate := range actions {
		if !blacklist[candidate.Name()] {
			continue
		}
		if isSubset(executedKeys, effectKeySet(candidate.Effects())) {
			delete(blacklist, candidate.Name())
		}
	}
}

func effectKeySet(s State) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func isSubset(sub, super map[string]struct{}) bool {
	for k := range sub {
		if _, ok := super[k]; !ok {
			return false
		}
	}
	return true
}

func (a *Agent) finishSuccessfully(runID string) {
	a.mu.Lock()
	stack := a.completed
	a.completed = nil
	a.mu.Unlock()

	for _, act := range stack {
		if act.AutoReset() {
			act.ResetEffects(a.State)
		}
	}
	log.Printf("[%s] run=%s goal achieved", a.Name, runID)
}

func (a *Agent) undoAndAbort(runID string) {
	log.Printf("[%s] run=%s unwinding completed actions", a.Name, runID)
	if err := a.UndoCompletedActions(); err != nil {
		log.Printf("[%s] run=%s undo halted: %v", a.Name, runID, err)
	}
}

func logPlan(name, runID string, plan Plan) {
	log.Printf("[%s] run=%s plan (%d steps):", name, runID, len(plan))
	for i, act := range plan {
		log.Printf("[%s] run=%s   %02d %-20s %v", name, runID, i+1, act.Name(), act.Effects())
	}
}
