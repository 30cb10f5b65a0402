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
	"testing"

	bt "github.com/joeycumines/go-behaviortree"
)

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusSuccess: "SUCCESS",
		StatusFailure: "FAILURE",
		StatusNeutral: "NEUTRAL",
		StatusRunning: "RUNNING",
		StatusAborted: "ABORTED",
		Status(99):    "UNKNOWN",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", status, got, want)
		}
	}
}

func TestFromBTStatus(t *testing.T) {
	if got := fromBTStatus(bt.Success); got != StatusSuccess {
		t.Errorf("fromBTStatus(Success) = %v, want Success", got)
	}
	if got := fromBTStatus(bt.Failure); got != StatusFailure {
		t.Errorf("fromBTStatus(Failure) = %v, want Failure", got)
	}
	if got := fromBTStatus(bt.Running); got != StatusRunning {
		t.Errorf("fromBTStatus(Running) = %v, want Running", got)
	}
}
