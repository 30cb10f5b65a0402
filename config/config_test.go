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

package config

import (
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
defaults:
  RentCar:
    cost: 100
  BuyCar:
    cost: 10000
    timeout: 1h
fixtures:
  driving:
    state:
      has_car: false
      has_drivers_license: true
    goal:
      driving: true
`

func TestLoadLibrary(t *testing.T) {
	lib, err := LoadLibrary(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}

	if got := lib.Default("RentCar").Cost; got != 100 {
		t.Errorf("RentCar cost = %v, want 100", got)
	}
	if got := lib.Default("BuyCar").Timeout; got != time.Hour {
		t.Errorf("BuyCar timeout = %v, want 1h", got)
	}
	if got := lib.Default("Unknown").Cost; got != 0 {
		t.Errorf("Unknown default cost = %v, want 0", got)
	}

	fixture, ok := lib.Fixture("driving")
	if !ok {
		t.Fatal("Fixture(driving) not found")
	}
	if fixture.State["has_car"] != false {
		t.Errorf("driving fixture state[has_car] = %v, want false", fixture.State["has_car"])
	}
	if fixture.Goal["driving"] != true {
		t.Errorf("driving fixture goal[driving] = %v, want true", fixture.Goal["driving"])
	}

	if _, ok := lib.Fixture("missing"); ok {
		t.Error("Fixture(missing) found, want not found")
	}
}

func TestLoadLibrary_empty(t *testing.T) {
	lib, err := LoadLibrary(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadLibrary(empty) error = %v", err)
	}
	if lib.Defaults == nil || lib.Fixtures == nil {
		t.Error("LoadLibrary(empty) left nil maps")
	}
}
