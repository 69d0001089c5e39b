// Copyright (c) 2023-2024 Pragmagic Inc. and/or its affiliates.
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

package main

import (
	"github.com/networkservicemesh/sdk/pkg/tools/log"

	"github.com/taxiwale/roadnet/internal/roadnet"
)

func parseNetworkToGraphicalModel(logger log.Logger, net *roadnet.Network) StorageData {
	var nodes []Node
	regions := make(map[string]bool)

	for i := range net.Locations() {
		loc := &net.Locations()[i]

		// Add region compound node
		regionID := regionPrefix + regionName(loc)
		if !regions[regionID] {
			regions[regionID] = true
			nodes = append(nodes, makeRegion(regionID, regionName(loc)))
		}

		nodes = append(nodes, makeLocationNode(loc, regionID))
	}

	var edges []Edge
	for i := range net.Connections() {
		edges = addEdge(edges, &net.Connections()[i])
	}

	logger.Infof("Graphical model built: %d nodes (%d regions), %d edges", len(nodes), len(regions), len(edges))
	return StorageData{Nodes: nodes, Edges: edges}
}

func regionName(loc *roadnet.Location) string {
	if loc.Region == "" {
		return unknownRegion
	}
	return loc.Region
}

func makeRegion(id, label string) Node {
	region := Node{}
	region.Data.ID = id
	region.Data.Type = regionNT
	region.Data.Label = label
	return region
}

func makeLocationNode(loc *roadnet.Location, parentID string) Node {
	node := Node{}
	node.Data.ID = loc.ID
	node.Data.Type = getLocationType(loc.Tier)
	node.Data.Label = loc.Name
	node.Data.Parent = parentID
	node.Data.CustomData = map[string]interface{}{
		"x":           loc.Position.X,
		"y":           loc.Position.Y,
		"connections": len(loc.Adjacency),
	}
	return node
}

func addEdge(edges []Edge, conn *roadnet.Connection) []Edge {
	edge := Edge{}
	edge.Data.ID = conn.ID
	edge.Data.Type = getConnectionType(conn.Kind)
	edge.Data.Source = conn.From
	edge.Data.Target = conn.To
	edge.Data.Main = conn.Main
	edge.Data.CustomData = map[string]interface{}{
		"control":   conn.Curve.Control,
		"curvature": conn.Curvature,
	}
	return append(edges, edge)
}

func getLocationType(tier roadnet.Tier) NodeType {
	switch tier {
	case roadnet.TierHub:
		return hubNT
	case roadnet.TierMajor:
		return majorNT
	default:
		return regionalNT
	}
}

func getConnectionType(kind roadnet.RoadKind) EdgeType {
	if kind == roadnet.Highway {
		return highwayConnection
	}
	return regionalConnection
}
