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

import "testing"

func TestBuildIndex_lookup(t *testing.T) {
	a := NewAction(ActionConfig{Name: "A", Effects: State{"x": true}})
	b := NewAction(ActionConfig{Name: "B", Effects: State{"x": true, "y": Any}})

	idx := buildIndex([]Action{a, b})

	got := idx.lookup("x", true)
	if len(got) != 2 || got[0].Name() != "A" || got[1].Name() != "B" {
		t.Errorf("lookup(x, true) = %v, want [A, B] in registration order", names(got))
	}

	got = idx.lookup("y", Any)
	if len(got) != 1 || got[0].Name() != "B" {
		t.Errorf("lookup(y, Any) = %v, want [B]", names(got))
	}

	if got := idx.lookup("missing", true); got != nil {
		t.Errorf("lookup(missing, true) = %v, want nil", got)
	}
}

func TestBuildIndex_idempotentRebuild(t *testing.T) {
	a := NewAction(ActionConfig{Name: "A", Effects: State{"x": true}})
	idx1 := buildIndex([]Action{a})
	idx2 := buildIndex([]Action{a})

	if len(idx1.lookup("x", true)) != len(idx2.lookup("x", true)) {
		t.Error("rebuilding the index from the same actions produced different results")
	}
}
