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
	"strings"
)

// maxReferenceDepth bounds reference expansion. The original Python engine
// this was distilled from let the interpreter's own recursion limit surface
// a RecursionError on cyclic references (action_graph/planner.py); Go does
// not recover from stack overflow, so the bound is made explicit here.
const maxReferenceDepth = 64

// resolvePrefix is '$' (step-local effects) or '@' (world/initial state).
type resolvePrefix byte

const (
	prefixLocal resolvePrefix = '$'
	prefixWorld resolvePrefix = '@'
)

// resolveReference expands value against state using prefix, per §4.1:
//
//   - a string containing '/' is split on '/', each segment resolved
//     independently, then rejoined with '/'
//   - a string of the form "<prefix><key>" is substituted with state[key]
//     and re-examined, repeating until no further substitution applies
//   - anything else is returned unchanged
//
// Cyclic or too-deep expansion is reported as a PlanningFailed error with
// reason "cyclic references".
func resolveReference(value any, state State, prefix resolvePrefix) (any, error) {
	return resolveReferenceDepth(value, state, prefix, 0)
}

func resolveReferenceDepth(value any, state State, prefix resolvePrefix, depth int) (any, error) {
	if depth > maxReferenceDepth {
		return nil, &PlanningFailed{Reason: "cyclic references"}
	}

	s, ok := value.(string)
	if !ok {
		return value, nil
	}

	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		resolved := make([]string, len(parts))
		for i, part := range parts {
			r, err := resolveReferenceDepth(part, state, prefix, depth+1)
			if err != nil {
				return nil, err
			}
			resolved[i] = fmt.Sprint(r)
		}
		return strings.Join(resolved, "/"), nil
	}

	cur := s
	for i := 0; ; i++ {
		if i > maxReferenceDepth {
			return nil, &PlanningFailed{Reason: "cyclic references"}
		}
		if len(cur) == 0 || cur[0] != byte(prefix) {
			return cur, nil
		}
		key := cur[1:]
		next, ok := state[key]
		if !ok {
			return cur, nil
		}
		nextStr, ok := next.(string)
		if !ok {
			return next, nil
		}
		if nextStr == cur {
			return nil, &PlanningFailed{Reason: "cyclic references"}
		}
		cur = nextStr
	}
}
