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
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed gujarat.yaml
var defaultDataset []byte

// Dataset is the YAML description of a network
type Dataset struct {
	Canvas    Canvas            `yaml:"canvas"`
	CurveCap  *float64          `yaml:"curveCap,omitempty"`
	Locations []DatasetLocation `yaml:"locations"`
}

// DatasetLocation is a single location entry of a Dataset
type DatasetLocation struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	Tier        Tier     `yaml:"tier"`
	Region      string   `yaml:"region,omitempty"`
	Connections []string `yaml:"connections"`
}

// Network validates the dataset and builds the network. A curve cap set in
// the dataset overrides fallbackCap.
func (d *Dataset) Network(fallbackCap float64) (*Network, error) {
	curveCap := fallbackCap
	if d.CurveCap != nil {
		curveCap = *d.CurveCap
	}

	locations := make([]Location, 0, len(d.Locations))
	for _, l := range d.Locations {
		name := l.Name
		if name == "" {
			name = l.ID
		}
		locations = append(locations, Location{
			ID:        l.ID,
			Name:      name,
			Position:  Point{X: l.X, Y: l.Y},
			Tier:      l.Tier,
			Region:    l.Region,
			Adjacency: l.Connections,
		})
	}
	return New(d.Canvas, locations, curveCap)
}

// LoadDataset decodes a YAML dataset. Unknown fields are rejected so typos in
// hand-authored files surface at load time.
func LoadDataset(r io.Reader) (*Dataset, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var dataset Dataset
	if err := decoder.Decode(&dataset); err != nil {
		return nil, errors.Wrap(err, "failed to decode dataset")
	}
	return &dataset, nil
}

// LoadDatasetFile decodes the YAML dataset stored at path
func LoadDatasetFile(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset %q", path)
	}
	defer func() { _ = file.Close() }()

	dataset, err := LoadDataset(file)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %q", path)
	}
	return dataset, nil
}

// DefaultDataset returns the bundled Gujarat road network
func DefaultDataset() (*Dataset, error) {
	return LoadDataset(bytes.NewReader(defaultDataset))
}

// Load builds the network from the dataset at path, or from the bundled one
// when path is empty.
func Load(path string, fallbackCap float64) (*Network, error) {
	var dataset *Dataset
	var err error
	if path == "" {
		dataset, err = DefaultDataset()
	} else {
		dataset, err = LoadDatasetFile(path)
	}
	if err != nil {
		return nil, err
	}
	return dataset.Network(fallbackCap)
}
