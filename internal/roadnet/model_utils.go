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

// BuildConnections emits one Connection per unordered adjacency pair, in the
// order pairs are first seen. Unknown or self references fail the whole build.
func BuildConnections(locations []Location, curveCap float64) ([]Connection, error) {
	locationMap := make(map[string]*Location, len(locations))
	for i := range locations {
		locationMap[locations[i].ID] = &locations[i]
	}

	var problems []string
	var connections []Connection
	emitted := make(map[string]bool)

	for i := range locations {
		loc := &locations[i]
		for _, neighborID := range loc.Adjacency {
			neighbor, ok := locationMap[neighborID]
			switch {
			case !ok:
				problems = append(problems, fmt.Sprintf("location %q connects to %q: %v", loc.ID, neighborID, ErrUnknownLocation))
				continue
			case neighborID == loc.ID:
				problems = append(problems, fmt.Sprintf("location %q connects to itself", loc.ID))
				continue
			}

			from, to := orient(loc, neighbor)
			key := pairKey(from.ID, to.ID)
			if emitted[key] {
				continue
			}
			emitted[key] = true
			connections = append(connections, makeConnection(from, to, curveCap))
		}
	}

	if len(problems) > 0 {
		return nil, errors.Errorf("invalid adjacency: %s", strings.Join(problems, "; "))
	}
	return connections, nil
}

// ComputeCurve returns the quadratic curve between a and b bowed to the left
// of the a->b direction, and the curvature magnitude used.
func ComputeCurve(a, b Point, curveCap float64) (Curve, float64) {
	mid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	dx := b.X - a.X
	dy := b.Y - a.Y
	distance := math.Hypot(dx, dy)

	if distance == 0 {
		return Curve{Start: a, Control: mid, End: b}, 0
	}

	curvature := math.Min(distance*curveFactor, curveCap)
	perpX := -dy / distance
	perpY := dx / distance

	return Curve{
		Start:   a,
		Control: Point{X: mid.X + perpX*curvature, Y: mid.Y + perpY*curvature},
		End:     b,
	}, curvature
}

func makeConnection(from, to *Location, curveCap float64) Connection {
	curve, curvature := ComputeCurve(from.Position, to.Position, curveCap)
	return Connection{
		ID:        generateConnectionID(from.ID, to.ID),
		From:      from.ID,
		To:        to.ID,
		Kind:      roadKind(from.Tier, to.Tier),
		Main:      from.Tier == TierHub || to.Tier == TierHub,
		Curvature: curvature,
		Curve:     curve,
	}
}

func orient(a, b *Location) (from, to *Location) {
	if b.ID < a.ID {
		return b, a
	}
	return a, b
}

func roadKind(a, b Tier) RoadKind {
	if a != TierRegional && b != TierRegional {
		return Highway
	}
	return Regional
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

func generateConnectionID(from, to string) string {
	return fmt.Sprintf("road--%s--%s", from, to)
}
