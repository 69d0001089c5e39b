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

package render

import (
	"math"
	"time"
)

// Property is an animated visual property
type Property string

const (
	// Scale multiplies the radius of a circle
	Scale Property = "scale"
	// Opacity is the element opacity
	Opacity Property = "opacity"
	// DashOffset is the stroke dash offset of a path
	DashOffset Property = "strokeDashoffset"
)

// Request asks an animation scheduler to move Property of the Target
// primitive from From to To. Duration and Delay are in milliseconds.
type Request struct {
	Target   string   `json:"target"`
	Property Property `json:"property"`
	From     float64  `json:"from"`
	To       float64  `json:"to"`
	Duration int64    `json:"durationMs"`
	Delay    int64    `json:"delayMs"`
	Easing   string   `json:"easing"`
	Loop     bool     `json:"loop,omitempty"`
}

// Scheduler runs animation requests. Scheduling is fire-and-forget.
type Scheduler interface {
	Schedule(req Request)
}

// Key identifies an animated property of a primitive
type Key struct {
	Target   string
	Property Property
}

const (
	nodeDuration   = 1000 * time.Millisecond
	nodeStagger    = 100 * time.Millisecond
	roadDuration   = 1500 * time.Millisecond
	roadStart      = 800 * time.Millisecond
	roadStagger    = 50 * time.Millisecond
	flowDuration   = 4000 * time.Millisecond
	flowDashTravel = -40

	nodeEasing = "easeOutElastic(1, .8)"
	roadEasing = "easeOutExpo"
	flowEasing = "linear"
)

// EntrancePlan derives the entrance animation of a draw list. Every
// non-looping request ends at the resting value the list already holds, so
// the plan never moves anything and replaying it settles in the same state.
func EntrancePlan(list []Primitive) []Request {
	var plan []Request
	var nodes, roads int

	for i := range list {
		p := &list[i]
		switch p.Class {
		case CityNodeClass:
			delay := (time.Duration(nodes) * nodeStagger).Milliseconds()
			plan = append(plan,
				Request{Target: p.ID, Property: Scale, From: 0, To: 1, Duration: nodeDuration.Milliseconds(), Delay: delay, Easing: nodeEasing},
				Request{Target: p.ID, Property: Opacity, From: 0, To: p.Style.Opacity, Duration: nodeDuration.Milliseconds(), Delay: delay, Easing: nodeEasing},
			)
			nodes++
		case RoadLineClass:
			delay := (roadStart + time.Duration(roads)*roadStagger).Milliseconds()
			// dashed roads already have a dash pattern and only fade in
			if revealed(p) {
				length := 0.0
				if p.Curve != nil {
					length = math.Ceil(curveLength(*p.Curve))
				}
				plan = append(plan, Request{Target: p.ID, Property: DashOffset, From: length, To: 0, Duration: roadDuration.Milliseconds(), Delay: delay, Easing: roadEasing})
			}
			plan = append(plan, Request{Target: p.ID, Property: Opacity, From: 0, To: p.Style.Opacity, Duration: roadDuration.Milliseconds(), Delay: delay, Easing: roadEasing})
			roads++
		case FlowLineClass:
			plan = append(plan, Request{
				Target: p.ID, Property: DashOffset, From: 0, To: flowDashTravel, Duration: flowDuration.Milliseconds(), Easing: flowEasing, Loop: true,
			})
		}
	}
	return plan
}

// Play issues the plan to the scheduler in order
func Play(s Scheduler, plan []Request) {
	for _, req := range plan {
		s.Schedule(req)
	}
}

// Final returns the value each non-looping request leaves its property at
func Final(plan []Request) map[Key]float64 {
	final := make(map[Key]float64)
	for _, req := range plan {
		if req.Loop {
			continue
		}
		final[Key{Target: req.Target, Property: req.Property}] = req.To
	}
	return final
}

// Resting returns the animated properties of the list at rest, keyed the same
// way as Final.
func Resting(list []Primitive) map[Key]float64 {
	resting := make(map[Key]float64)
	for i := range list {
		p := &list[i]
		switch p.Class {
		case CityNodeClass:
			resting[Key{Target: p.ID, Property: Scale}] = 1
			resting[Key{Target: p.ID, Property: Opacity}] = p.Style.Opacity
		case RoadLineClass:
			if revealed(p) {
				resting[Key{Target: p.ID, Property: DashOffset}] = 0
			}
			resting[Key{Target: p.ID, Property: Opacity}] = p.Style.Opacity
		}
	}
	return resting
}

// revealed reports whether a road line is drawn in along its length
func revealed(p *Primitive) bool {
	return p.Style.DashArray == ""
}
