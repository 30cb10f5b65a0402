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

// Plan is an ordered, deduplicated sequence of bound Action instances
// whose cumulative effects satisfy a goal.
type Plan []Action

// Planner performs the recursive, goal-regression least-cost search of
// §4.3 over a registered library of actions.
type Planner struct {
	actions []Action
	index   *index
}

// NewPlanner builds a Planner over actions, constructing its lookup index
// immediately (the index is rebuilt, never incrementally patched, exactly
// as load_actions does in the engine this was distilled from).
func NewPlanner(actions []Action) *Planner {
	return &Planner{actions: actions, index: buildIndex(actions)}
}

// UpdateActions replaces the planner's action library and rebuilds the
// lookup index. Calling it twice with the same list is idempotent: the
// resulting index is identical both times.
func (p *Planner) UpdateActions(actions []Action) {
	p.actions = actions
	p.index = buildIndex(actions)
}

// GeneratePlan searches for a least-cost plan achieving goal from start,
// ignoring any action whose Name is in blacklist. goal may carry more than
// one key; the top-level caller's multi-key goal is regressed key by key,
// in sorted order for determinism, and the resulting sub-plans are
// concatenated and deduplicated (§9 "single-key subgoal restriction": the
// recursive call always sees exactly one key, per spec.md §4.3).
func (p *Planner) GeneratePlan(goal, start State, blacklist map[string]bool) (Plan, error) {
	if len(goal) == 0 {
		return nil, nil
	}
	if blacklist == nil {
		blacklist = map[string]bool{}
	}

	var combined Plan
	for _, key := range goal.SortedKeys() {
		sub, err := p.regress(key, goal[key], start, blacklist, map[subgoalKey]struct{}{})
		if err != nil {
			return nil, err
		}
		combined = append(combined, sub...)
	}
	combined = dedup(combined)

	if err := checkFeasible(combined); err != nil {
		return nil, err
	}
	return combined, nil
}

// subgoalKey identifies a single (key, value) subgoal frame for the
// in-progress cycle guard. Tracking the value alongside the key (rather
// than the key alone) matters: a subgoal can legitimately require the same
// state key with a different value further down its own regression (e.g.
// the pick-and-place scenario regresses "object_location" = destination,
// and inside that frame "object_location" = "gripper" for Place's
// precondition) without that being a cycle. Re-entering the exact same
// (key, value) frame, however, is a genuine cycle.
type subgoalKey struct {
	Key   string
	Value any
}

// regress implements steps 1-11 of §4.3 for a single-key subgoal (gk, gv).
func (p *Planner) regress(gk string, gv any, start State, blacklist map[string]bool, inProgress map[subgoalKey]struct{}) (Plan, error) {
	// 1. resolve gv against start_state.
	resolved, err := resolveReference(gv, start, prefixWorld)
	if err != nil {
		return nil, err
	}

	// 2. already satisfied?
	if start.Has(gk, resolved) {
		return nil, nil
	}

	// cyclic-subgoal guard (an explicit in-progress set, per §9's suggested
	// cleaner alternative to relying on recursion overflow).
	frame := subgoalKey{Key: gk, Value: resolved}
	if _, cyclic := inProgress[frame]; cyclic {
		return nil, &PlanningFailed{Reason: "cyclic references", Key: gk, Value: resolved}
	}

	// 3. candidate producers, falling back to wildcard producers.
	candidates := p.index.lookup(gk, resolved)
	if len(candidates) == 0 {
		candidates = p.index.lookup(gk, Any)
	}

	// 4. filter blacklisted actions.
	var filtered []Action
	for _, c := range candidates {
		if !blacklist[c.Name()] {
			filtered = append(filtered, c)
		}
	}

	// 5. no feasible producer: impossible-action marker.
	if len(filtered) == 0 {
		return Plan{NewImpossibleAction(gk, resolved)}, nil
	}

	inProgress[frame] = struct{}{}
	defer delete(inProgress, frame)

	var (
		chosen     Plan
		chosenCost float64
		haveChosen bool
	)
	for _, candidate := range filtered {
		path, cost, err := p.explore(candidate, gk, resolved, start, blacklist, inProgress)
		if err != nil {
			return nil, err
		}
		// 10. strictly-smaller cost wins; ties keep the first-explored path.
		if !haveChosen || cost < chosenCost {
			chosen, chosenCost, haveChosen = path, cost, true
		}
	}

	// 11. a winning path containing an infinite-cost action is infeasible.
	if err := checkFeasible(chosen); err != nil {
		return nil, err
	}

	return chosen, nil
}

// explore binds candidate to satisfy (gk, gv), recursively plans each of
// its preconditions, and returns the assembled, deduplicated path together
// with its total cost (steps 6-9 of §4.3).
func (p *Planner) explore(candidate Action, gk string, gv any, start State, blacklist map[string]bool, inProgress map[subgoalKey]struct{}) (Plan, float64, error) {
	bound := candidate.Copy()
	effects := bound.Effects()
	if IsAny(effects[gk]) {
		effects[gk] = gv
	}

	var path Plan
	for _, pk := range bound.Preconditions().SortedKeys() {
		pv := bound.Preconditions()[pk]

		// resolve against the bound action's own effects ($), then against
		// world/start state (@), per §4.3 step 7.
		pv, err := resolveReference(pv, effects, prefixLocal)
		if err != nil {
			return nil, 0, err
		}
		pv, err = resolveReference(pv, start, prefixWorld)
		if err != nil {
			return nil, 0, err
		}

		sub, err := p.regress(pk, pv, start, blacklist, inProgress)
		if err != nil {
			return nil, 0, err
		}
		path = append(path, sub...)
	}

	path = dedup(append(path, bound))

	var cost float64
	for _, a := range path {
		cost += a.Cost()
	}
	return path, cost, nil
}

// dedup removes later duplicates from path under Equal, preserving the
// order of first occurrence (§4.3 step 9).
func dedup(path Plan) Plan {
	if len(path) == 0 {
		return path
	}
	out := make(Plan, 0, len(path))
	for _, a := range path {
		duplicate := false
		for _, seen := range out {
			if Equal(seen, a) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, a)
		}
	}
	return out
}

// checkFeasible returns a PlanningFailed error identifying the first
// infinite-cost (impossible) action found in path, or nil if path is
// entirely finite-cost.
func checkFeasible(path Plan) error {
	for _, a := range path {
		if IsImpossible(a) {
			for k, v := range a.Effects() {
				return &PlanningFailed{Reason: "no action available to satisfy", Key: k, Value: v}
			}
			return &PlanningFailed{Reason: "no action available to satisfy an unnamed subgoal"}
		}
	}
	return nil
}
