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
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var testCanvas = Canvas{Width: 100, Height: 100}

func triangle(t *testing.T) *Network {
	net, err := New(testCanvas, []Location{
		location("a", 0, 0, TierHub, "b", "c"),
		location("b", 10, 0, TierMajor, "c"),
		location("c", 5, 8, TierRegional, "a"),
		location("d", 50, 50, TierRegional, "c"),
	}, DefaultCurveCap)
	require.NoError(t, err)
	return net
}

func keys(m map[string]bool) []string {
	var out []string
	for k, v := range m {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func Test_Network_Validation(t *testing.T) {
	_, err := New(Canvas{}, []Location{
		location("a", 0, 0, TierHub),
		location("a", 1, 1, TierMajor),
		location("", 2, 2, TierMajor),
		location("b", 3, 3, Tier("capital")),
	}, DefaultCurveCap)
	require.Error(t, err)

	msg := err.Error()
	require.Contains(t, msg, "canvas size must be positive")
	require.Contains(t, msg, `location "a" is declared more than once`)
	require.Contains(t, msg, "location #2 has an empty id")
	require.Contains(t, msg, `location "b" has unknown tier "capital"`)

	_, err = New(testCanvas, nil, -1)
	require.Error(t, err)
	_, err = New(testCanvas, nil, math.NaN())
	require.Error(t, err)
}

func Test_Network_NonFinitePosition(t *testing.T) {
	_, err := New(testCanvas, []Location{
		location("a", math.NaN(), 0, TierHub, "b"),
		location("b", 10, math.Inf(1), TierMajor),
		location("c", 5, 5, TierMajor),
	}, DefaultCurveCap)
	require.Error(t, err)
	require.Contains(t, err.Error(), `location "a" has non-finite position`)
	require.Contains(t, err.Error(), `location "b" has non-finite position`)
	require.NotContains(t, err.Error(), `location "c"`)
}

func Test_Network_UnknownAdjacencyFailsFast(t *testing.T) {
	_, err := New(testCanvas, []Location{
		location("a", 0, 0, TierHub, "nowhere"),
	}, DefaultCurveCap)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "invalid network"))
}

func Test_Network_DoesNotAliasInput(t *testing.T) {
	locations := []Location{
		location("a", 0, 0, TierHub, "b"),
		location("b", 10, 0, TierMajor),
	}
	net, err := New(testCanvas, locations, DefaultCurveCap)
	require.NoError(t, err)

	locations[0].Adjacency[0] = "x"
	locations[1].Name = "changed"

	loc, ok := net.Location("a")
	require.True(t, ok)
	require.Equal(t, []string{"b"}, loc.Adjacency)
	loc, _ = net.Location("b")
	require.Equal(t, "b", loc.Name)
}

func Test_Network_HoverEmphasis(t *testing.T) {
	net := triangle(t)

	state := SetHover(State{}, "a")
	require.Equal(t, []string{"road--a--b", "road--a--c"}, keys(net.Emphasized(state)))

	state = ClearHover(state)
	require.Empty(t, keys(net.Emphasized(state)))

	state = SetHover(SetHover(state, "a"), "d")
	require.Equal(t, []string{"road--c--d"}, keys(net.Emphasized(state)))
	require.True(t, state.IsHovered("d"))
	require.False(t, state.IsHovered("a"))
}

func Test_Network_Selection(t *testing.T) {
	net := triangle(t)

	state := Select(State{}, "b")
	require.Equal(t, Selection{From: "b"}, state.Selection)
	require.Empty(t, keys(net.Emphasized(state)))

	state = Select(state, "a")
	require.Equal(t, Selection{From: "b", To: "a"}, state.Selection)
	require.Equal(t, []string{"road--a--b"}, keys(net.Emphasized(state)))
	require.True(t, state.IsSelected("a"))
	require.True(t, state.IsSelected("b"))
	require.False(t, state.IsSelected("c"))

	state = Select(state, "c")
	require.Equal(t, Selection{From: "b", To: "c"}, state.Selection)
	require.Equal(t, []string{"road--b--c"}, keys(net.Emphasized(state)))

	state = Select(state, "b")
	require.Equal(t, Selection{}, state.Selection)
}

func Test_Network_MatchAndStats(t *testing.T) {
	net := triangle(t)

	require.Len(t, keys(net.Match("")), 4)
	require.Equal(t, []string{"a"}, keys(net.Match("A")))
	require.Empty(t, keys(net.Match(" A ")))
	require.Empty(t, keys(net.Match("zzz")))

	require.Equal(t, Stats{Locations: 4, Connections: 4, Highways: 1}, net.Stats())
	require.Equal(t, []string{"road--a--c", "road--b--c", "road--c--d"}, net.Incident("c"))
	require.True(t, net.Has("d"))
	require.False(t, net.Has("e"))
}
