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

// Package goap implements a goal-oriented action planning engine: a
// least-cost goal-regression planner paired with an agent executor that
// drives a plan step by step against live, mutable world state, replanning
// around failures and blacklisting actions that misbehave.
//
// The two halves are tightly coupled but independently usable: Planner
// turns a goal and a start State into a Plan given a library of Action
// templates, while Agent owns a live State and repeatedly invokes the
// planner as it executes, reconciling expected effects against whatever
// actually happens at runtime.
package goap
