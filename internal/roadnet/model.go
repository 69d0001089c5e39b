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

// Package roadnet holds the road network diagram model: locations, the
// connections derived from their adjacency, connector curve geometry and the
// hover/selection state transitions.
package roadnet

import (
	"github.com/pkg/errors"
)

// ErrUnknownLocation is returned when an id does not name a Location of the network
var ErrUnknownLocation = errors.New("unknown location")

// Point is a coordinate in the virtual canvas space
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Tier is a Location importance tier
type Tier string

const (
	// TierHub is the central city of the network
	TierHub Tier = "hub"
	// TierMajor is a major city
	TierMajor Tier = "major"
	// TierRegional is a regional town
	TierRegional Tier = "regional"
)

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	switch t {
	case TierHub, TierMajor, TierRegional:
		return true
	}
	return false
}

// Label is the human readable tier name used in tooltips
func (t Tier) Label() string {
	switch t {
	case TierHub:
		return "Hub City"
	case TierMajor:
		return "Major City"
	default:
		return "Regional City"
	}
}

// Location is a named network node
type Location struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Position  Point    `json:"position"`
	Tier      Tier     `json:"tier"`
	Region    string   `json:"region,omitempty"`
	Adjacency []string `json:"connections"`
}

// RoadKind is a connection style class
type RoadKind string

const (
	// Highway joins two hub or major locations
	Highway RoadKind = "highway"
	// Regional is any other road
	Regional RoadKind = "regional"
)

// Curve is a quadratic curve descriptor
type Curve struct {
	Start   Point `json:"start"`
	Control Point `json:"control"`
	End     Point `json:"end"`
}

// Connection is an undirected route between two locations.
// From is always the lexicographically smaller id.
type Connection struct {
	ID        string   `json:"id"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Kind      RoadKind `json:"kind"`
	Main      bool     `json:"main"`
	Curvature float64  `json:"curvature"`
	Curve     Curve    `json:"curve"`
}

// Touches reports whether the connection has id as one of its endpoints
func (c *Connection) Touches(id string) bool {
	return id != "" && (c.From == id || c.To == id)
}

// Joins reports whether the connection is the unordered pair {a, b}
func (c *Connection) Joins(a, b string) bool {
	return (c.From == a && c.To == b) || (c.From == b && c.To == a)
}

// Canvas is the virtual coordinate space size
type Canvas struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Stats is a network summary
type Stats struct {
	Locations   int `json:"locations"`
	Connections int `json:"connections"`
	Highways    int `json:"highways"`
}

const (
	// DefaultCurveCap limits the perpendicular offset of connector curves
	DefaultCurveCap float64 = 60
	curveFactor     float64 = 0.3
)
