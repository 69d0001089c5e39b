// Copyright (c) 2024 Pragmagic Inc. and/or its affiliates.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package roadnet

// Selection is a traced route between two locations. To is empty while only
// the start has been picked.
type Selection struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// State is the runtime diagram state. The zero value has nothing hovered
// and nothing selected.
type State struct {
	Hovered   string    `json:"hovered,omitempty"`
	Selection Selection `json:"selection"`
}

// SetHover is the pointer-enter transition: the last entered location wins.
func SetHover(state State, id string) State {
	state.Hovered = id
	return state
}

// ClearHover is the pointer-leave transition. It clears unconditionally since
// a following enter overwrites the id anyway.
func ClearHover(state State) State {
	state.Hovered = ""
	return state
}

// Select is the click transition. Clicking the route start again clears the
// selection, clicking with a start picked sets the end, otherwise the clicked
// location becomes the start.
func Select(state State, id string) State {
	switch {
	case state.Selection.From == id:
		state.Selection = Selection{}
	case state.Selection.From != "":
		state.Selection.To = id
	default:
		state.Selection = Selection{From: id}
	}
	return state
}

// IsHovered reports whether id is the hovered location
func (s State) IsHovered(id string) bool {
	return id != "" && s.Hovered == id
}

// IsSelected reports whether id is an endpoint of the selection
func (s State) IsSelected(id string) bool {
	return id != "" && (s.Selection.From == id || s.Selection.To == id)
}

// Selects reports whether conn is the selected route
func (s State) Selects(conn *Connection) bool {
	if s.Selection.From == "" || s.Selection.To == "" {
		return false
	}
	return conn.Joins(s.Selection.From, s.Selection.To)
}
