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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/goleak"

	"github.com/networkservicemesh/sdk/pkg/tools/log"

	"github.com/taxiwale/roadnet/internal/roadnet"
)

func newTestServer(t *testing.T) (*gin.Engine, *storage) {
	ctx := context.Background()
	net := testNetwork(t)
	st := newStorage(parseNetworkToGraphicalModel(log.FromContext(ctx), net))
	config := &Config{AllowOrigins: []string{"http://localhost:3000"}}
	return configureRESTServer(ctx, config, net, st), st
}

func do(r http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r http.Handler) string {
	w := do(r, http.MethodPost, "/sessions")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func Test_REST_GraphicalModel(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})
	r, _ := newTestServer(t)

	w := do(r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = do(r, http.MethodGet, "/nodes", "Origin", "http://localhost:3000")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	var nodes []Node
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nodes))
	require.Len(t, nodes, 8)

	w = do(r, http.MethodGet, "/edges")
	require.Equal(t, http.StatusOK, w.Code)
	var edges []Edge
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edges))
	require.Len(t, edges, 3)

	w = do(r, http.MethodGet, "/stats")
	require.Equal(t, http.StatusOK, w.Code)
	var stats roadnet.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, roadnet.Stats{Locations: 4, Connections: 3, Highways: 1}, stats)

	w = do(r, http.MethodGet, "/diagram.svg?q=raj&animate=true")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, mimeSVG, w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), `id="city--rajkot"`)
	require.NotContains(t, w.Body.String(), `id="city--morbi"`)
	require.Contains(t, w.Body.String(), "<animate")
}

func Test_REST_HoverAndSelect(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})
	r, _ := newTestServer(t)
	id := createSession(t, r)

	w := do(r, http.MethodPut, "/sessions/"+id+"/hover/rajkot")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/sessions/"+id+"/diagram")
	require.Equal(t, http.StatusOK, w.Code)
	var diagram diagramResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diagram))
	require.Equal(t, "rajkot", diagram.State.Hovered)
	require.Equal(t, roadnet.Canvas{Width: 100, Height: 100}, diagram.Canvas)
	require.NotEmpty(t, diagram.Animation)

	emphasized := map[string]float64{}
	for _, p := range diagram.Primitives {
		if p.Class == "road-line" {
			emphasized[p.ID] = p.Style.Opacity
		}
	}
	require.Equal(t, map[string]float64{
		"road--ahmedabad--rajkot":  1,
		"road--ahmedabad--mehsana": 0.85,
		"road--morbi--rajkot":      1,
	}, emphasized)

	w = do(r, http.MethodDelete, "/sessions/"+id+"/hover")
	require.Equal(t, http.StatusOK, w.Code)
	var state roadnet.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Empty(t, state.Hovered)

	do(r, http.MethodPost, "/sessions/"+id+"/select/morbi")
	w = do(r, http.MethodPost, "/sessions/"+id+"/select/rajkot")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.Equal(t, roadnet.Selection{From: "morbi", To: "rajkot"}, state.Selection)

	w = do(r, http.MethodGet, "/sessions/"+id+"/diagram.svg")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `id="road--morbi--rajkot"`)

	w = do(r, http.MethodGet, "/sessions/"+id)
	require.Equal(t, http.StatusOK, w.Code)
	var session sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.Equal(t, id, session.ID)
	require.Equal(t, "morbi", session.State.Selection.From)
}

func Test_REST_MsgPack(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})
	r, _ := newTestServer(t)
	id := createSession(t, r)

	w := do(r, http.MethodGet, "/sessions/"+id+"/diagram?q=morbi", "Accept", mimeMsgPack)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, mimeMsgPack, w.Header().Get("Content-Type"))

	var decoded map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &decoded))
	require.Contains(t, decoded, "primitives")
	require.Contains(t, decoded, "animation")
	require.Contains(t, decoded, "canvas")
}

func Test_REST_Errors(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})
	r, _ := newTestServer(t)
	id := createSession(t, r)

	w := do(r, http.MethodPut, "/sessions/"+id+"/hover/atlantis")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "unknown location")

	w = do(r, http.MethodPost, "/sessions/"+id+"/select/atlantis")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/sessions/nope/hover/rajkot")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "unknown session")

	w = do(r, http.MethodGet, "/diagram.svg?animate=yes")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `animate=\"yes\"`)
	w = do(r, http.MethodGet, "/sessions/"+id+"/diagram.svg?animate=")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(r, http.MethodGet, "/sessions/"+id+"/diagram.svg?animate=0")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "<animate")

	w = do(r, http.MethodDelete, "/sessions/"+id)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodGet, "/sessions/"+id)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(r, http.MethodDelete, "/sessions/"+id)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func Test_REST_Events(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})
	r, st := newTestServer(t)
	id := createSession(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/events", http.NoBody).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool {
		_, subscribers, err := st.sessionState(id)
		return err == nil && subscribers == 1
	}, time.Second, time.Millisecond)

	require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/sessions/"+id+"/hover/mehsana").Code)

	// deleting the session ends the stream after the buffered state is sent
	require.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/sessions/"+id).Code)
	<-done

	body := w.Body.String()
	require.Equal(t, 2, strings.Count(body, "event:state"))
	require.Contains(t, body, `"hovered":"mehsana"`)
	require.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
}

func Test_CORS_AllowAll(t *testing.T) {
	config := corsConfig([]string{"*"})
	require.True(t, config.AllowAllOrigins)
	require.Empty(t, config.AllowOrigins)
	require.NoError(t, config.Validate())

	config = corsConfig([]string{"https://partners.example"})
	require.False(t, config.AllowAllOrigins)
	require.NoError(t, config.Validate())
}
