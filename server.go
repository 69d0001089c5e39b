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
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/networkservicemesh/sdk/pkg/tools/log"

	"github.com/taxiwale/roadnet/internal/render"
	"github.com/taxiwale/roadnet/internal/roadnet"
)

const (
	mimeMsgPack = "application/msgpack"
	mimeSVG     = "image/svg+xml"
)

var errBadQuery = errors.New("bad query parameter")

type restServer struct {
	logger  log.Logger
	net     *roadnet.Network
	storage *storage
}

// diagramResponse is a render of a session: the draw list and its entrance animation
type diagramResponse struct {
	Canvas     roadnet.Canvas     `json:"canvas"`
	State      roadnet.State      `json:"state"`
	Primitives []render.Primitive `json:"primitives"`
	Animation  []render.Request   `json:"animation"`
}

type sessionResponse struct {
	ID          string        `json:"id"`
	State       roadnet.State `json:"state"`
	Subscribers int           `json:"subscribers"`
}

func configureRESTServer(ctx context.Context, config *Config, net *roadnet.Network, st *storage) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(cors.New(corsConfig(config.AllowOrigins)))

	s := &restServer{
		logger:  log.FromContext(ctx),
		net:     net,
		storage: st,
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/nodes", func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, st.data.Nodes)
	})
	r.GET("/edges", func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, st.data.Edges)
	})
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, net.Stats())
	})
	r.GET("/diagram.svg", s.handleStaticSVG)

	sessions := r.Group("/sessions")
	sessions.POST("", s.handleCreateSession)
	sessions.GET("/:id", s.handleGetSession)
	sessions.DELETE("/:id", s.handleDeleteSession)
	sessions.GET("/:id/diagram", s.handleDiagram)
	sessions.GET("/:id/diagram.svg", s.handleSessionSVG)
	sessions.PUT("/:id/hover/:location", s.handleHover)
	sessions.DELETE("/:id/hover", s.handleLeave)
	sessions.POST("/:id/select/:location", s.handleSelect)
	sessions.GET("/:id/events", s.handleEvents)

	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	for _, origin := range origins {
		if origin == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	return config
}

// runRESTServer serves until ctx is done, then shuts down gracefully
func runRESTServer(ctx context.Context, listenOn string, handler http.Handler, shutdownTimeout time.Duration) error {
	logger := log.FromContext(ctx)
	srv := &http.Server{
		Addr:              listenOn,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Infof("REST server listening on %q", listenOn)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "failed to run REST server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down REST server")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "REST server stopped")
	}
	logger.Info("REST server stopped")
	return nil
}

func (s *restServer) handleStaticSVG(c *gin.Context) {
	list := render.Build(s.net, roadnet.State{}, render.Options{Query: c.Query("q")})
	s.writeSVG(c, list)
}

func (s *restServer) handleCreateSession(c *gin.Context) {
	id, state := s.storage.createSession()
	s.logger.Infof("Diagram session %q created", id)
	c.JSON(http.StatusCreated, sessionResponse{ID: id, State: state})
}

func (s *restServer) handleGetSession(c *gin.Context) {
	id := c.Param("id")
	state, subscribers, err := s.storage.sessionState(id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, State: state, Subscribers: subscribers})
}

func (s *restServer) handleDeleteSession(c *gin.Context) {
	id := c.Param("id")
	if !s.storage.deleteSession(id) {
		s.abort(c, errors.Wrapf(errUnknownSession, "session %q", id))
		return
	}
	s.logger.Infof("Diagram session %q deleted", id)
	c.Status(http.StatusNoContent)
}

func (s *restServer) handleDiagram(c *gin.Context) {
	state, _, err := s.storage.sessionState(c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}

	list := render.Build(s.net, state, render.Options{Query: c.Query("q")})
	response := diagramResponse{
		Canvas:     s.net.Canvas(),
		State:      state,
		Primitives: list,
		Animation:  render.EntrancePlan(list),
	}

	if c.NegotiateFormat(gin.MIMEJSON, mimeMsgPack) == mimeMsgPack {
		var buf bytes.Buffer
		encoder := msgpack.NewEncoder(&buf)
		encoder.SetCustomStructTag("json")
		if err := encoder.Encode(&response); err != nil {
			s.abort(c, errors.Wrap(err, "failed to encode diagram"))
			return
		}
		c.Data(http.StatusOK, mimeMsgPack, buf.Bytes())
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *restServer) handleSessionSVG(c *gin.Context) {
	state, _, err := s.storage.sessionState(c.Param("id"))
	if err != nil {
		s.abort(c, err)
		return
	}
	s.writeSVG(c, render.Build(s.net, state, render.Options{Query: c.Query("q")}))
}

func (s *restServer) writeSVG(c *gin.Context, list []render.Primitive) {
	animate := false
	if raw, ok := c.GetQuery("animate"); ok {
		var err error
		if animate, err = strconv.ParseBool(raw); err != nil {
			s.abort(c, errors.Wrapf(errBadQuery, "animate=%q", raw))
			return
		}
	}

	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, s.net.Canvas(), list, animate); err != nil {
		s.abort(c, err)
		return
	}
	c.Data(http.StatusOK, mimeSVG, buf.Bytes())
}

func (s *restServer) handleHover(c *gin.Context) {
	location := c.Param("location")
	if !s.net.Has(location) {
		s.abort(c, errors.Wrapf(roadnet.ErrUnknownLocation, "location %q", location))
		return
	}
	s.transition(c, func(state roadnet.State) roadnet.State {
		return roadnet.SetHover(state, location)
	})
}

func (s *restServer) handleLeave(c *gin.Context) {
	s.transition(c, roadnet.ClearHover)
}

func (s *restServer) handleSelect(c *gin.Context) {
	location := c.Param("location")
	if !s.net.Has(location) {
		s.abort(c, errors.Wrapf(roadnet.ErrUnknownLocation, "location %q", location))
		return
	}
	s.transition(c, func(state roadnet.State) roadnet.State {
		return roadnet.Select(state, location)
	})
}

func (s *restServer) transition(c *gin.Context, fn func(roadnet.State) roadnet.State) {
	id := c.Param("id")
	state, err := s.storage.updateSession(id, fn)
	if err != nil {
		s.abort(c, err)
		return
	}
	s.logger.Debugf("Diagram session %q state: hovered %q, selection %q -> %q", id, state.Hovered, state.Selection.From, state.Selection.To)
	c.JSON(http.StatusOK, state)
}

func (s *restServer) handleEvents(c *gin.Context) {
	id := c.Param("id")
	state, updates, unsubscribe, err := s.storage.subscribe(id)
	if err != nil {
		s.abort(c, err)
		return
	}
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("state", state)
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("state", state)
			c.Writer.Flush()
		}
	}
}

func (s *restServer) abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errUnknownSession), errors.Is(err, roadnet.ErrUnknownLocation):
		status = http.StatusNotFound
	case errors.Is(err, errBadQuery):
		status = http.StatusBadRequest
	default:
		s.logger.Errorf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
