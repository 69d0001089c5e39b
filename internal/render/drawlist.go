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

// Package render turns a road network and its diagram state into an ordered
// list of draw primitives, and serializes that list as SVG.
package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/taxiwale/roadnet/internal/roadnet"
)

// Kind is a draw primitive type
type Kind string

const (
	circleKind Kind = "circle"
	pathKind   Kind = "path"
	textKind   Kind = "text"
	rectKind   Kind = "rect"
)

// Classes of the primitives. Pointer handlers and the entrance animation
// select elements by class.
const (
	RoadLineClass      = "road-line"
	FlowLineClass      = "flow-line"
	CityRingClass      = "city-ring"
	CityGlowClass      = "city-glow"
	CityNodeClass      = "city-node"
	CityHighlightClass = "city-highlight"
	CityLabelClass     = "city-label"
	TooltipClass       = "tooltip"
)

// Style is the visual weight of a primitive
type Style struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Opacity     float64 `json:"opacity"`
	DashArray   string  `json:"dashArray,omitempty"`
	Filter      string  `json:"filter,omitempty"`
}

// Primitive is a single draw call. Only the geometry fields of its Kind are set.
type Primitive struct {
	Kind       Kind   `json:"kind"`
	ID         string `json:"id"`
	Class      string `json:"class"`
	Location   string `json:"location,omitempty"`
	Connection string `json:"connection,omitempty"`

	// circle
	CX float64 `json:"cx,omitempty"`
	CY float64 `json:"cy,omitempty"`
	R  float64 `json:"r,omitempty"`

	// path
	D     string         `json:"d,omitempty"`
	Curve *roadnet.Curve `json:"curve,omitempty"`

	// text and rect
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight int     `json:"fontWeight,omitempty"`
	Anchor     string  `json:"anchor,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	RX         float64 `json:"rx,omitempty"`

	Style Style `json:"style"`
}

// Options narrows what is drawn
type Options struct {
	// Query hides locations whose name does not contain it. Connections stay.
	Query string
}

const (
	gold      = "#FFB300"
	paleGold  = "#FFD65A"
	white     = "#FFFFFF"
	panel     = "#1a1a1a"
	hoverZoom = 1.15
)

// Build produces the ordered draw-call list: every connection (road line then
// flow line) followed by every visible location.
func Build(net *roadnet.Network, state roadnet.State, opts Options) []Primitive {
	emphasized := net.Emphasized(state)
	visible := net.Match(opts.Query)

	connections := net.Connections()
	list := make([]Primitive, 0, 2*len(connections)+6*len(net.Locations()))

	for i := range connections {
		list = append(list, roadPrimitives(&connections[i], emphasized[connections[i].ID])...)
	}
	for i := range net.Locations() {
		loc := &net.Locations()[i]
		if !visible[loc.ID] {
			continue
		}
		list = append(list, locationPrimitives(loc, state)...)
	}
	return list
}

func roadPrimitives(conn *roadnet.Connection, emphasized bool) []Primitive {
	curve := conn.Curve
	d := pathData(conn)

	line := Primitive{
		Kind:       pathKind,
		ID:         conn.ID,
		Class:      RoadLineClass,
		Connection: conn.ID,
		D:          d,
		Curve:      &curve,
		Style: Style{
			Stroke:      "url(#roadGradient)",
			StrokeWidth: 2.5,
			Opacity:     0.65,
			Filter:      "url(#roadGlow)",
		},
	}
	flow := Primitive{
		Kind:       pathKind,
		ID:         conn.ID + "--flow",
		Class:      FlowLineClass,
		Connection: conn.ID,
		D:          d,
		Curve:      &curve,
		Style: Style{
			Stroke:      paleGold,
			StrokeWidth: 3,
			Opacity:     0.5,
			DashArray:   "25,15",
		},
	}

	if conn.Main {
		line.Style.StrokeWidth = 3
		line.Style.Opacity = 0.85
		flow.Style.StrokeWidth = 4
	}
	if conn.Kind == roadnet.Regional {
		line.Style.DashArray = "6,4"
	}
	if emphasized {
		line.Style.StrokeWidth++
		line.Style.Opacity = 1
		flow.Style.Opacity = 0.8
	}
	return []Primitive{line, flow}
}

func locationPrimitives(loc *roadnet.Location, state roadnet.State) []Primitive {
	x, y := loc.Position.X, loc.Position.Y
	size := nodeSize(loc.Tier)
	hovered := state.IsHovered(loc.ID)

	ring := Primitive{
		Kind:     circleKind,
		ID:       "ring--" + loc.ID,
		Class:    CityRingClass,
		Location: loc.ID,
		CX:       x,
		CY:       y,
		R:        size + 8,
		Style:    Style{Fill: "none", Stroke: gold, StrokeWidth: 2, Opacity: 0.3},
	}
	node := Primitive{
		Kind:     circleKind,
		ID:       "city--" + loc.ID,
		Class:    CityNodeClass,
		Location: loc.ID,
		CX:       x,
		CY:       y,
		R:        size,
		Style:    Style{Fill: "url(#cityGradient)", Opacity: 1, Filter: "url(#cityGlow)"},
	}
	label := Primitive{
		Kind:       textKind,
		ID:         "label--" + loc.ID,
		Class:      CityLabelClass,
		Location:   loc.ID,
		X:          x,
		Y:          y + size + 26,
		Text:       loc.Name,
		FontSize:   labelSize(loc.Tier),
		FontWeight: 700,
		Anchor:     "middle",
		Style:      Style{Fill: white, Opacity: 0.9},
	}

	if hovered {
		ring.Style.Opacity = 0.6
		node.R = size * hoverZoom
		label.Style.Opacity = 1
	}
	if state.IsSelected(loc.ID) {
		node.Style.Stroke = white
		node.Style.StrokeWidth = 3
	}

	list := []Primitive{ring}
	if loc.Tier == roadnet.TierHub {
		list = append(list, Primitive{
			Kind:     circleKind,
			ID:       "glow--" + loc.ID,
			Class:    CityGlowClass,
			Location: loc.ID,
			CX:       x,
			CY:       y,
			R:        size + 15,
			Style:    Style{Fill: "url(#hubGlow)", Opacity: 0.4},
		})
	}
	list = append(list, node, Primitive{
		Kind:     circleKind,
		ID:       "highlight--" + loc.ID,
		Class:    CityHighlightClass,
		Location: loc.ID,
		CX:       x - size*0.25,
		CY:       y - size*0.25,
		R:        size * 0.45,
		Style:    Style{Fill: "rgba(255, 255, 255, 0.4)", Opacity: 0.7},
	}, label)

	if hovered {
		list = append(list, tooltip(loc, size)...)
	}
	return list
}

func tooltip(loc *roadnet.Location, size float64) []Primitive {
	x, y := loc.Position.X, loc.Position.Y
	return []Primitive{
		{
			Kind:     rectKind,
			ID:       "tooltip--" + loc.ID,
			Class:    TooltipClass,
			Location: loc.ID,
			X:        x - 80,
			Y:        y - size - 50,
			Width:    160,
			Height:   40,
			RX:       8,
			Style:    Style{Fill: panel, Stroke: gold, StrokeWidth: 2, Opacity: 0.95},
		},
		{
			Kind:       textKind,
			ID:         "tooltip-name--" + loc.ID,
			Class:      TooltipClass,
			Location:   loc.ID,
			X:          x,
			Y:          y - size - 30,
			Text:       loc.Name,
			FontSize:   11,
			FontWeight: 600,
			Anchor:     "middle",
			Style:      Style{Fill: gold, Opacity: 1},
		},
		{
			Kind:     textKind,
			ID:       "tooltip-tier--" + loc.ID,
			Class:    TooltipClass,
			Location: loc.ID,
			X:        x,
			Y:        y - size - 15,
			Text:     loc.Tier.Label(),
			FontSize: 10,
			Anchor:   "middle",
			Style:    Style{Fill: white, Opacity: 1},
		},
	}
}

func nodeSize(tier roadnet.Tier) float64 {
	switch tier {
	case roadnet.TierHub:
		return 30
	case roadnet.TierMajor:
		return 24
	default:
		return 20
	}
}

func labelSize(tier roadnet.Tier) float64 {
	switch tier {
	case roadnet.TierHub:
		return 16
	case roadnet.TierMajor:
		return 14
	default:
		return 12
	}
}

// pathData is a quadratic curve, or a straight segment when the endpoints
// coincide and there is nothing to bow.
func pathData(conn *roadnet.Connection) string {
	c := conn.Curve
	if conn.Curvature == 0 {
		return fmt.Sprintf("M %s %s L %s %s", num(c.Start.X), num(c.Start.Y), num(c.End.X), num(c.End.Y))
	}
	return fmt.Sprintf("M %s %s Q %s %s %s %s",
		num(c.Start.X), num(c.Start.Y), num(c.Control.X), num(c.Control.Y), num(c.End.X), num(c.End.Y))
}

// curveLength approximates the arc length of a quadratic curve
func curveLength(c roadnet.Curve) float64 {
	const steps = 32
	var length float64
	prev := c.Start
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		u := 1 - t
		p := roadnet.Point{
			X: u*u*c.Start.X + 2*u*t*c.Control.X + t*t*c.End.X,
			Y: u*u*c.Start.Y + 2*u*t*c.Control.Y + t*t*c.End.Y,
		}
		length += math.Hypot(p.X-prev.X, p.Y-prev.Y)
		prev = p
	}
	return length
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
