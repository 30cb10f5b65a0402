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
	"math"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
)

// DefaultTimeout is the timeout an Action gets when its ActionConfig leaves
// Timeout unset, matching the ~24h default of the engine this was
// distilled from (a plan is expected to fail fast on anything shorter).
const DefaultTimeout = 24 * time.Hour

// DefaultCost is the cost an Action gets when its ActionConfig leaves Cost
// unset (the zero value would otherwise make every unset-cost action free).
const DefaultCost = 1.0

type (
	// Action is an immutable template carrying preconditions, effects, cost
	// and behavior, per §3/§4.2. Users build one with NewAction (the
	// equivalent of the teacher's simpleAction/simpleEffect/simpleCondition
	// struct-literal pattern) or by implementing the interface directly.
	//
	// Per-plan copies (produced by Copy) are independently mutable: each
	// carries its own effect-application backup, so ApplyEffects/
	// ResetEffects round-trip correctly even when the same template is
	// planned for twice in the same Plan.
	Action interface {
		Name() string
		Preconditions() State
		Effects() State
		Cost() float64
		Timeout() time.Duration
		AsyncExec() bool
		AutoReset() bool

		// CheckRuntimePrecondition is the last-moment gate checked
		// immediately before execution; returning false aborts the action
		// with ActionFailed.
		CheckRuntimePrecondition() bool

		// Node returns the behavior tree node driving this action's actual
		// work. It is materialized once per execution attempt; its Tick is
		// polled by the executor until it reports other than bt.Running,
		// exactly as go-behaviortree's bt.Async is polled by the teacher's
		// own tickMove/tickPick/tickPlace.
		Node() bt.Node

		// ApplyEffects writes outcome into state, saving whatever it
		// overwrites so ResetEffects can undo it later.
		ApplyEffects(outcome, state State)
		// ResetEffects restores whatever ApplyEffects last overwrote.
		ResetEffects(state State)

		// Undo performs a user-defined inverse of this action's effects; it
		// is invoked during LIFO rollback after a later action in the same
		// plan fails. A non-nil return halts further rollback.
		Undo() error

		// IsNeutral is consulted immediately after Node's tick resolves to
		// bt.Success: if true, the executor treats the attempt as NEUTRAL
		// rather than SUCCESS (effects are not applied; see §4.2's "if
		// NEUTRAL, effects are not applied to world state").
		IsNeutral() bool

		OnSuccess()
		OnFailure()
		OnNeutral()
		OnExit()
		Abort()

		// Copy returns an independent instance: same declared behavior, but
		// its own mutable per-instance state (effect backups) and its own
		// Effects/Preconditions maps, safe for wildcard binding during
		// planning without mutating the template.
		Copy() Action
	}

	// ActionConfig configures an Action built with NewAction. Every
	// callback is optional; unset ones fall back to the no-op/identity
	// defaults described in §4.2.
	ActionConfig struct {
		Name          string
		Preconditions State
		Effects       State
		Cost          float64
		Timeout       time.Duration
		AsyncExec     bool
		AutoReset     bool

		// Execute is the action's actual work, as a go-behaviortree Tick.
		// It is wrapped in bt.Async automatically unless Node is also set.
		// Leaving Execute nil defaults to an immediate StatusSuccess.
		Execute bt.Tick
		// Node overrides Execute entirely with a caller-assembled behavior
		// tree node (e.g. bt.Sequence of several ticks).
		Node bt.Node

		CheckRuntimePrecondition func() bool
		// Neutral is consulted after a successful tick to decide whether the
		// attempt should be downgraded to NEUTRAL (see Action.IsNeutral).
		Neutral      func() bool
		ApplyEffects func(outcome, state State)
		ResetEffects func(state State)
		Undo         func() error
		OnSuccess    func()
		OnFailure    func()
		OnNeutral    func()
		OnExit       func()
		Abort        func()
	}

	action struct {
		cfg       ActionConfig
		backup    State
		backupSet map[string]bool
	}
)

// NewAction builds an Action from cfg, the idiomatic way to declare one
// (mirroring the teacher's simpleAction struct literal, minus the
// boilerplate of hand-implementing every hook).
func NewAction(cfg ActionConfig) Action {
	if cfg.Preconditions == nil {
		cfg.Preconditions = State{}
	}
	if cfg.Effects == nil {
		cfg.Effects = State{}
	}
	if cfg.Cost == 0 {
		cfg.Cost = DefaultCost
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &action{cfg: cfg}
}

func (a *action) Name() string            { return a.cfg.Name }
func (a *action) Preconditions() State    { return a.cfg.Preconditions }
func (a *action) Effects() State          { return a.cfg.Effects }
func (a *action) Cost() float64           { return a.cfg.Cost }
func (a *action) Timeout() time.Duration  { return a.cfg.Timeout }
func (a *action) AsyncExec() bool         { return a.cfg.AsyncExec }
func (a *action) AutoReset() bool         { return a.cfg.AutoReset }

func (a *action) CheckRuntimePrecondition() bool {
	if a.cfg.CheckRuntimePrecondition != nil {
		return a.cfg.CheckRuntimePrecondition()
	}
	return true
}

func (a *action) Node() bt.Node {
	if a.cfg.Node != nil {
		return a.cfg.Node
	}
	tick := a.cfg.Execute
	if tick == nil {
		tick = func([]bt.Node) (bt.Status, error) { return bt.Success, nil }
	}
	return bt.New(bt.Async(tick))
}

func (a *action) ApplyEffects(outcome, state State) {
	if a.cfg.ApplyEffects != nil {
		a.cfg.ApplyEffects(outcome, state)
		return
	}
	a.backup = State{}
	a.backupSet = make(map[string]bool, len(outcome))
	for k, v := range outcome {
		if prev, ok := state[k]; ok {
			a.backup[k] = prev
			a.backupSet[k] = true
		} else {
			a.backupSet[k] = false
		}
		state[k] = v
	}
}

func (a *action) ResetEffects(state State) {
	if a.cfg.ResetEffects != nil {
		a.cfg.ResetEffects(state)
		return
	}
	for k, existed := range a.backupSet {
		if existed {
			state[k] = a.backup[k]
		} else {
			delete(state, k)
		}
	}
}

func (a *action) IsNeutral() bool {
	if a.cfg.Neutral != nil {
		return a.cfg.Neutral()
	}
	return false
}

func (a *action) Undo() error {
	if a.cfg.Undo != nil {
		return a.cfg.Undo()
	}
	return nil
}

func (a *action) OnSuccess() {
	if a.cfg.OnSuccess != nil {
		a.cfg.OnSuccess()
	}
}

func (a *action) OnFailure() {
	if a.cfg.OnFailure != nil {
		a.cfg.OnFailure()
	}
}

func (a *action) OnNeutral() {
	if a.cfg.OnNeutral != nil {
		a.cfg.OnNeutral()
	}
}

func (a *action) OnExit() {
	if a.cfg.OnExit != nil {
		a.cfg.OnExit()
	}
}

func (a *action) Abort() {
	if a.cfg.Abort != nil {
		a.cfg.Abort()
	}
}

func (a *action) Copy() Action {
	cfg := a.cfg
	cfg.Preconditions = a.cfg.Preconditions.Clone()
	cfg.Effects = a.cfg.Effects.Clone()
	return &action{cfg: cfg}
}

// Equal implements the elastic action-equality of §3: same name, same
// cost, equal preconditions, and effects equal under a comparison where
// the Any wildcard matches any concrete value for the same key. Used by
// the planner to deduplicate a Plan while preserving first occurrence.
func Equal(a, b Action) bool {
	if a.Name() != b.Name() || a.Cost() != b.Cost() {
		return false
	}
	if !a.Preconditions().Equal(b.Preconditions()) {
		return false
	}
	return effectsElasticEqual(a.Effects(), b.Effects())
}

func effectsElasticEqual(a, b State) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if IsAny(av) || IsAny(bv) {
			continue
		}
		if av != bv {
			return false
		}
	}
	return true
}

// NewImpossibleAction builds the impossible-action marker of §3: infinite
// cost, a single declared effect, no preconditions. Its presence in a
// completed path signals planning failure.
func NewImpossibleAction(key string, value any) Action {
	return NewAction(ActionConfig{
		Name:    "$impossible",
		Effects: State{key: value},
		Cost:    math.Inf(1),
	})
}

// IsImpossible reports whether a is an infinite-cost marker action.
func IsImpossible(a Action) bool {
	return math.IsInf(a.Cost(), 1)
}
