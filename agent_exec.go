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
	"log"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
)

// pollInterval is how often executeAction checks for abort/timeout while
// its worker goroutine ticks an Action's Node. The teacher's own
// tickMove/tickPick/tickPlace examples are one-shot (they block until done
// inside the async goroutine and only ever report Running once); a generic
// executor still has to poll, since unlike Python's Thread.is_alive() there
// is no separate liveness signal to wait on independent of the next tick.
const pollInterval = 5 * time.Millisecond

// nodeResult carries the outcome of ticking an Action's Node to completion,
// as delivered by the worker goroutine runNode spawns.
type nodeResult struct {
	status Status
	err    error
}

// asyncHandle is the task handle recorded under each effect key of an
// async_exec Action, per §4.4 step 5. A downstream action naming one of
// those keys as a precondition joins it at step 2 of its own
// executeAction before doing anything else.
type asyncHandle struct {
	action Action
	done   chan struct{}
	result nodeResult
}

// runNode spawns the worker goroutine that ticks act's Node until it
// reports other than bt.Running, exactly the "one worker task per action"
// scheduling model of §5: the poll loop below overlaps with the action
// body instead of blocking inside it, so abort/timeout are observed at
// pollInterval granularity regardless of how long a single tick takes.
func runNode(act Action) <-chan nodeResult {
	ch := make(chan nodeResult, 1)
	go func() {
		node := act.Node()
		for {
			status, err := node.Tick()
			if err != nil {
				ch <- nodeResult{status: StatusFailure, err: err}
				return
			}
			if status != bt.Running {
				ch <- nodeResult{status: fromBTStatus(status)}
				return
			}
			time.Sleep(pollInterval)
		}
	}()
	return ch
}

// executeAction runs a single bound Action to completion (or dispatch, for
// an async_exec Action): it checks the abort flag, joins any pending async
// predecessor, checks the runtime precondition, spawns act.Node()'s worker
// goroutine, and either dispatches-and-returns (async_exec) or polls to a
// terminal status (synchronous), applying effects and invoking the
// matching lifecycle hook. It implements the per-action state machine of
// §4.4.
func (a *Agent) executeAction(act Action) (Status, error) {
	if a.abort.Load() {
		act.Abort()
		act.OnExit()
		return StatusAborted, &ActionAborted{Action: act.Name()}
	}

	// Step 2: join any async predecessor whose effects this action's
	// preconditions depend on.
	if status, joined, err := a.joinAsyncPredecessors(act); joined {
		return status, err
	}

	if !act.CheckRuntimePrecondition() {
		act.OnFailure()
		act.OnExit()
		return StatusFailure, &ActionFailed{Action: act.Name(), Reason: "runtime precondition not met"}
	}

	results := runNode(act)

	if act.AsyncExec() {
		return a.dispatchAsync(act, results), nil
	}

	deadline := time.Now().Add(act.Timeout())
	for {
		select {
		case r := <-results:
			return a.finalize(act, r)
		case <-time.After(pollInterval):
		}
		if a.abort.Load() {
			act.Abort()
			act.OnExit()
			return StatusAborted, &ActionAborted{Action: act.Name()}
		}
		if time.Now().After(deadline) {
			act.Abort()
			act.OnFailure()
			act.OnExit()
			return StatusFailure, &ActionTimedOut{Action: act.Name(), Timeout: act.Timeout()}
		}
	}
}

// joinAsyncPredecessors implements §4.4 step 2: for each precondition key
// of act that names an effect key of a still-pending async_exec
// predecessor, wait for that predecessor's worker task. If it finished
// with FAILURE, its optimistically-applied effects are rolled back, it is
// dropped from the action library (and the planner index rebuilt), and
// this call returns NEUTRAL so the drive loop replans. joined reports
// whether a predecessor failure short-circuited execution of act itself.
func (a *Agent) joinAsyncPredecessors(act Action) (status Status, joined bool, err error) {
	for pk := range act.Preconditions() {
		a.mu.Lock()
		handle, pending := a.asyncPending[pk]
		a.mu.Unlock()
		if !pending {
			continue
		}

		<-handle.done

		a.mu.Lock()
		for k, h := range a.asyncPending {
			if h == handle {
				delete(a.asyncPending, k)
			}
		}
		a.mu.Unlock()

		if handle.result.status == StatusFailure {
			handle.action.ResetEffects(a.State)
			a.removeAction(handle.action)
			return StatusNeutral, true, nil
		}
	}
	return 0, false, nil
}

// dispatchAsync implements §4.4 step 5: effects are applied optimistically
// before the worker task completes, the task handle is recorded under each
// effect key for downstream joins, and NEUTRAL is returned immediately so
// the drive loop treats this step as dispatched, not finished.
func (a *Agent) dispatchAsync(act Action, results <-chan nodeResult) Status {
	if a.State == nil {
		a.State = State{}
	}
	act.ApplyEffects(act.Effects(), a.State)

	handle := &asyncHandle{action: act, done: make(chan struct{})}
	go func() {
		handle.result = <-results
		close(handle.done)
	}()

	a.mu.Lock()
	if a.asyncPending == nil {
		a.asyncPending = make(map[string]*asyncHandle)
	}
	for k := range act.Effects() {
		a.asyncPending[k] = handle
	}
	a.mu.Unlock()

	return StatusNeutral
}

// finalize interprets a terminal nodeResult per §4.4 step 7: an engine
// error coerces to FAILURE, a FAILURE unwinds the completed-actions stack
// via Undo (LIFO), bt.Success is downgraded to NEUTRAL when the Action
// itself reports IsNeutral (effects are not applied in that case), and
// ordinary SUCCESS applies effects before the on_success hook.
func (a *Agent) finalize(act Action, r nodeResult) (Status, error) {
	if r.err != nil {
		act.OnFailure()
		if err := a.UndoCompletedActions(); err != nil {
			log.Printf("[%s] undo halted: %v", a.Name, err)
		}
		act.OnExit()
		return StatusFailure, &ActionFailed{Action: act.Name(), Reason: r.err.Error()}
	}

	if r.status == StatusFailure {
		act.OnFailure()
		if err := a.UndoCompletedActions(); err != nil {
			log.Printf("[%s] undo halted: %v", a.Name, err)
		}
		act.OnExit()
		return StatusFailure, &ActionFailed{Action: act.Name(), Reason: "action reported failure"}
	}

	if act.IsNeutral() {
		act.OnNeutral()
		act.OnExit()
		return StatusNeutral, nil
	}

	if a.State == nil {
		a.State = State{}
	}
	act.ApplyEffects(act.Effects(), a.State)
	act.OnSuccess()
	act.OnExit()
	return StatusSuccess, nil
}

// removeAction drops act from the agent's action library by name and
// rebuilds the planner's lookup index, per §4.4 step 2's "remove it from
// the action set, rebuild the planner index".
func (a *Agent) removeAction(act Action) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Action, 0, len(a.actions))
	for _, x := range a.actions {
		if x.Name() != act.Name() {
			out = append(out, x)
		}
	}
	a.actions = out
	a.planner.UpdateActions(a.actions)
}
