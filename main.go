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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/networkservicemesh/sdk/pkg/tools/log"
	"github.com/networkservicemesh/sdk/pkg/tools/log/logruslogger"

	"github.com/taxiwale/roadnet/internal/render"
	"github.com/taxiwale/roadnet/internal/roadnet"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "roadnet",
		Short:        "Road network diagram backend",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand(), newRenderCommand(), newValidateCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the road network diagram over REST",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, err := setupLogger(cmd.Context(), config.LogLevel)
			if err != nil {
				return err
			}
			return serve(ctx, config)
		},
	}
}

func setupLogger(ctx context.Context, level string) (context.Context, error) {
	logrus.SetFormatter(&nested.Formatter{})
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	logrus.SetLevel(l)
	return log.WithLog(ctx, logruslogger.New(ctx, map[string]interface{}{"cmd": os.Args[:1]})), nil
}

func serve(ctx context.Context, config *Config) error {
	logger := log.FromContext(ctx)
	logger.Infof("Config: %#v", config)

	net, err := roadnet.Load(config.DatasetPath, config.CurveCap)
	if err != nil {
		return errors.Wrap(err, "failed to load road network")
	}
	stats := net.Stats()
	logger.Infof("Road network loaded: %d locations, %d connections, %d highways", stats.Locations, stats.Connections, stats.Highways)

	st := newStorage(parseNetworkToGraphicalModel(logger, net))
	handler := configureRESTServer(ctx, config, net, st)

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runSessionCleanup(ctx, st, config.CleanupInterval, config.SessionTTL)
	}()

	return runRESTServer(ctx, config.ListenOn, handler, config.ShutdownTimeout)
}

func runSessionCleanup(ctx context.Context, st *storage, interval, ttl time.Duration) {
	logger := log.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range st.cleanupIdle(ttl) {
				logger.Infof("Diagram session %q expired", id)
			}
		}
	}
}

type renderOptions struct {
	dataset  string
	curveCap float64
	hover    string
	selected []string
	query    string
	animate  bool
	output   string
}

func newRenderCommand() *cobra.Command {
	opts := new(renderOptions)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the road network diagram as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if opts.output != "" && opts.output != "-" {
				file, err := os.Create(opts.output)
				if err != nil {
					return errors.Wrapf(err, "failed to create %q", opts.output)
				}
				defer func() { _ = file.Close() }()
				out = file
			}
			return renderDiagram(out, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.dataset, "dataset", "", "YAML network dataset, empty uses the bundled one")
	flags.Float64Var(&opts.curveCap, "curve-cap", roadnet.DefaultCurveCap, "maximum connector curvature")
	flags.StringVar(&opts.hover, "hover", "", "location to draw hovered")
	flags.StringSliceVar(&opts.selected, "select", nil, "locations to click, in order")
	flags.StringVarP(&opts.query, "query", "q", "", "only draw locations whose name contains this")
	flags.BoolVar(&opts.animate, "animate", false, "embed the entrance animation")
	flags.StringVarP(&opts.output, "output", "o", "", "output file, stdout by default")
	return cmd
}

func renderDiagram(w io.Writer, opts *renderOptions) error {
	net, err := roadnet.Load(opts.dataset, opts.curveCap)
	if err != nil {
		return err
	}

	var state roadnet.State
	ids := append(append([]string(nil), opts.selected...), opts.hover)
	for _, id := range ids {
		if id != "" && !net.Has(id) {
			return errors.Wrapf(roadnet.ErrUnknownLocation, "location %q", id)
		}
	}
	for _, id := range opts.selected {
		state = roadnet.Select(state, id)
	}
	if opts.hover != "" {
		state = roadnet.SetHover(state, opts.hover)
	}

	list := render.Build(net, state, render.Options{Query: opts.query})
	return render.WriteSVG(w, net.Canvas(), list, opts.animate)
}

func newValidateCommand() *cobra.Command {
	var curveCap float64
	cmd := &cobra.Command{
		Use:   "validate [dataset]",
		Short: "Validate a road network dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			net, err := roadnet.Load(path, curveCap)
			if err != nil {
				return err
			}
			stats := net.Stats()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d locations, %d connections (%d highways)\n",
				stats.Locations, stats.Connections, stats.Highways)
			return err
		},
	}
	cmd.Flags().Float64Var(&curveCap, "curve-cap", roadnet.DefaultCurveCap, "maximum connector curvature")
	return cmd
}
