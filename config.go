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

package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "roadnet"

// Config - configuration for the road network backend
type Config struct {
	ListenOn        string        `default:":3001" desc:"address the REST server listens on" split_words:"true"`
	AllowOrigins    []string      `default:"http://localhost:3000" desc:"CORS origins, * allows any" split_words:"true"`
	LogLevel        string        `default:"INFO" desc:"Log level" split_words:"true"`
	DatasetPath     string        `default:"" desc:"YAML network dataset, empty uses the bundled one" split_words:"true"`
	CurveCap        float64       `default:"60" desc:"maximum connector curvature in canvas units" split_words:"true"`
	SessionTTL      time.Duration `default:"30m" desc:"idle diagram sessions are dropped after this" envconfig:"SESSION_TTL"`
	CleanupInterval time.Duration `default:"1m" desc:"how often idle sessions are looked for" split_words:"true"`
	ShutdownTimeout time.Duration `default:"5s" desc:"grace period for in-flight requests on shutdown" split_words:"true"`
}

// loadConfig reads an optional .env file, then the ROADNET_* environment
func loadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	config := new(Config)
	if err := envconfig.Process(envPrefix, config); err != nil {
		return nil, errors.Wrap(err, "cannot process envconfig roadnet")
	}
	if config.CleanupInterval <= 0 {
		return nil, errors.Errorf("cleanup interval must be positive, got %v", config.CleanupInterval)
	}
	return config, nil
}
