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

import bt "github.com/joeycumines/go-behaviortree"

// Status is the outcome of a single action execution attempt. It extends
// go-behaviortree's three-state Success/Failure/Running with the two
// additional terminal states the agent executor needs: Neutral (the step
// did not complete as a success, caller should replan; effects are not
// applied, except by an async_exec dispatch, which applies them before the
// action finishes) and Aborted (Agent.Abort fired).
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusNeutral
	StatusRunning
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailure:
		return "FAILURE"
	case StatusNeutral:
		return "NEUTRAL"
	case StatusRunning:
		return "RUNNING"
	case StatusAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// fromBTStatus maps a go-behaviortree Status (as returned by an Action's
// Node) onto the subset of Status it can represent. Neutral and Aborted
// are never produced this way; they are layered on by the executor.
func fromBTStatus(s bt.Status) Status {
	switch s {
	case bt.Success:
		return StatusSuccess
	case bt.Failure:
		return StatusFailure
	default:
		return StatusRunning
	}
}
