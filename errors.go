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
	"fmt"
	"time"
)

type (
	// PlanningFailed reports that GeneratePlan could not produce a feasible
	// plan: no action produces a required effect, a cyclic reference was
	// detected, or the cheapest explored path still contains an
	// infinite-cost action.
	PlanningFailed struct {
		Reason string
		Key    string
		Value  any
	}

	// ActionFailed reports that an action's runtime precondition failed, or
	// its execution completed with status FAILURE.
	ActionFailed struct {
		Action string
		Reason string
	}

	// ActionAborted reports that Agent.Abort was called while an action was
	// in flight or about to run.
	ActionAborted struct {
		Action string
	}

	// ActionTimedOut reports that an action's wall-clock Timeout elapsed
	// before it reached a terminal status.
	ActionTimedOut struct {
		Action  string
		Timeout time.Duration
	}
)

func (e *PlanningFailed) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("goap: planning failed: %s: %s=%v", e.Reason, e.Key, e.Value)
	}
	return fmt.Sprintf("goap: planning failed: %s", e.Reason)
}

func (e *ActionFailed) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("goap: action %q failed: %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("goap: action %q failed", e.Action)
}

func (e *ActionAborted) Error() string {
	return fmt.Sprintf("goap: action %q aborted", e.Action)
}

func (e *ActionTimedOut) Error() string {
	return fmt.Sprintf("goap: action %q timed out after %s", e.Action, e.Timeout)
}
