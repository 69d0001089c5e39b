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

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Network is a validated, immutable set of locations and the connections
// derived from them. It is safe for concurrent reads.
type Network struct {
	canvas      Canvas
	curveCap    float64
	locations   []Location
	index       map[string]int
	connections []Connection
}

// New validates the locations and derives their connections. Any invalid
// entry fails the whole network; nothing is skipped.
func New(canvas Canvas, locations []Location, curveCap float64) (*Network, error) {
	if curveCap < 0 || math.IsNaN(curveCap) {
		return nil, errors.Errorf("curve cap must be a non-negative number, got %v", curveCap)
	}

	var problems []string
	if canvas.Width <= 0 || canvas.Height <= 0 {
		problems = append(problems, fmt.Sprintf("canvas size must be positive, got %vx%v", canvas.Width, canvas.Height))
	}

	index := make(map[string]int, len(locations))
	for i := range locations {
		loc := &locations[i]
		switch {
		case loc.ID == "":
			problems = append(problems, fmt.Sprintf("location #%d has an empty id", i))
			continue
		case !loc.Tier.Valid():
			problems = append(problems, fmt.Sprintf("location %q has unknown tier %q", loc.ID, loc.Tier))
		}
		if !finite(loc.Position.X) || !finite(loc.Position.Y) {
			problems = append(problems, fmt.Sprintf("location %q has non-finite position (%v, %v)", loc.ID, loc.Position.X, loc.Position.Y))
		}
		if _, exists := index[loc.ID]; exists {
			problems = append(problems, fmt.Sprintf("location %q is declared more than once", loc.ID))
			continue
		}
		index[loc.ID] = i
	}
	if len(problems) > 0 {
		return nil, errors.Errorf("invalid network: %s", strings.Join(problems, "; "))
	}

	owned := make([]Location, len(locations))
	for i := range locations {
		owned[i] = locations[i]
		owned[i].Adjacency = append([]string(nil), locations[i].Adjacency...)
	}

	connections, err := BuildConnections(owned, curveCap)
	if err != nil {
		return nil, errors.Wrap(err, "invalid network")
	}

	return &Network{
		canvas:      canvas,
		curveCap:    curveCap,
		locations:   owned,
		index:       index,
		connections: connections,
	}, nil
}

// Canvas returns the virtual canvas size
func (n *Network) Canvas() Canvas {
	return n.canvas
}

// CurveCap returns the curvature cap the connections were built with
func (n *Network) CurveCap() float64 {
	return n.curveCap
}

// Locations returns the locations in declaration order. The slice must not be modified.
func (n *Network) Locations() []Location {
	return n.locations
}

// Connections returns the derived connections. The slice must not be modified.
func (n *Network) Connections() []Connection {
	return n.connections
}

// Location looks a location up by id
func (n *Network) Location(id string) (*Location, bool) {
	i, ok := n.index[id]
	if !ok {
		return nil, false
	}
	return &n.locations[i], true
}

// Has reports whether id names a location of the network
func (n *Network) Has(id string) bool {
	_, ok := n.index[id]
	return ok
}

// Incident returns the ids of connections touching the location
func (n *Network) Incident(id string) []string {
	var ids []string
	for i := range n.connections {
		if n.connections[i].Touches(id) {
			ids = append(ids, n.connections[i].ID)
		}
	}
	return ids
}

// Emphasized returns the ids of the connections drawn with emphasis for the
// given state: those incident to the hovered location and the selected route.
func (n *Network) Emphasized(state State) map[string]bool {
	emphasized := make(map[string]bool)
	for i := range n.connections {
		conn := &n.connections[i]
		if conn.Touches(state.Hovered) || state.Selects(conn) {
			emphasized[conn.ID] = true
		}
	}
	return emphasized
}

// Match returns the ids of locations whose name contains query, ignoring case.
// An empty query matches every location. The query is used as typed.
func (n *Network) Match(query string) map[string]bool {
	query = strings.ToLower(query)
	matched := make(map[string]bool, len(n.locations))
	for i := range n.locations {
		if query == "" || strings.Contains(strings.ToLower(n.locations[i].Name), query) {
			matched[n.locations[i].ID] = true
		}
	}
	return matched
}

// Stats summarizes the network
func (n *Network) Stats() Stats {
	stats := Stats{
		Locations:   len(n.locations),
		Connections: len(n.connections),
	}
	for i := range n.connections {
		if n.connections[i].Kind == Highway {
			stats.Highways++
		}
	}
	return stats
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
