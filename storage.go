// Copyright (c) 2023 Cisco and/or its affiliates.
//
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
	"sync"
	"time"

	"github.com/edwarnicke/genericsync"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/taxiwale/roadnet/internal/roadnet"
)

var errUnknownSession = errors.New("unknown session")

// StorageData is the graphical model of the network
type StorageData struct {
	Nodes []Node
	Edges []Edge
}

// diagramSession is the state of one viewer's diagram
type diagramSession struct {
	mu          sync.Mutex
	state       roadnet.State
	lastAccess  time.Time
	subscribers map[chan roadnet.State]struct{}
	// closed is set once the session has left the map
	closed bool
}

func (d *diagramSession) idle(deadline time.Time) bool {
	return len(d.subscribers) == 0 && d.lastAccess.Before(deadline)
}

// terminate ends every subscription. Must be called with mu held.
func (d *diagramSession) terminate() {
	d.closed = true
	for ch := range d.subscribers {
		delete(d.subscribers, ch)
		close(ch)
	}
}

type storage struct {
	data     StorageData
	sessions genericsync.Map[string, *diagramSession]
	now      func() time.Time
}

func newStorage(data StorageData) *storage {
	return &storage{
		data: data,
		now:  time.Now,
	}
}

func (s *storage) createSession() (string, roadnet.State) {
	id := uuid.New().String()
	s.sessions.Store(id, &diagramSession{
		lastAccess:  s.now(),
		subscribers: make(map[chan roadnet.State]struct{}),
	})
	return id, roadnet.State{}
}

// lockSession returns the session with its mutex held. A session removed
// between the lookup and the lock is reported as unknown.
func (s *storage) lockSession(id string) (*diagramSession, error) {
	session, ok := s.sessions.Load(id)
	if !ok {
		return nil, errors.Wrapf(errUnknownSession, "session %q", id)
	}
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return nil, errors.Wrapf(errUnknownSession, "session %q", id)
	}
	return session, nil
}

// sessionState returns the session state and its subscriber count
func (s *storage) sessionState(id string) (roadnet.State, int, error) {
	session, err := s.lockSession(id)
	if err != nil {
		return roadnet.State{}, 0, err
	}
	defer session.mu.Unlock()
	session.lastAccess = s.now()
	return session.state, len(session.subscribers), nil
}

// updateSession applies a state transition and notifies subscribers
func (s *storage) updateSession(id string, transition func(roadnet.State) roadnet.State) (roadnet.State, error) {
	session, err := s.lockSession(id)
	if err != nil {
		return roadnet.State{}, err
	}
	defer session.mu.Unlock()

	session.lastAccess = s.now()
	next := transition(session.state)
	if next == session.state {
		return next, nil
	}
	session.state = next
	for ch := range session.subscribers {
		publish(ch, next)
	}
	return next, nil
}

// subscribe returns the current state and a channel of later states. The
// channel is closed when the session is deleted.
func (s *storage) subscribe(id string) (roadnet.State, <-chan roadnet.State, func(), error) {
	session, err := s.lockSession(id)
	if err != nil {
		return roadnet.State{}, nil, nil, err
	}
	defer session.mu.Unlock()

	ch := make(chan roadnet.State, 1)
	session.subscribers[ch] = struct{}{}
	session.lastAccess = s.now()

	unsubscribe := func() {
		session.mu.Lock()
		defer session.mu.Unlock()
		if _, ok := session.subscribers[ch]; ok {
			delete(session.subscribers, ch)
			close(ch)
		}
	}
	return session.state, ch, unsubscribe, nil
}

func (s *storage) deleteSession(id string) bool {
	session, ok := s.sessions.LoadAndDelete(id)
	if !ok {
		return false
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return false
	}
	session.terminate()
	return true
}

// expireIfIdle deletes the session if it is still idle at deadline. The check
// and the removal happen under the session lock.
func (s *storage) expireIfIdle(id string, deadline time.Time) bool {
	session, err := s.lockSession(id)
	if err != nil {
		return false
	}
	defer session.mu.Unlock()
	if !session.idle(deadline) {
		return false
	}
	session.terminate()
	s.sessions.Delete(id)
	return true
}

// cleanupIdle removes sessions without subscribers that were not accessed for maxAge
func (s *storage) cleanupIdle(maxAge time.Duration) []string {
	var expired []string
	deadline := s.now().Add(-maxAge)
	s.sessions.Range(func(id string, _ *diagramSession) bool {
		if s.expireIfIdle(id, deadline) {
			expired = append(expired, id)
		}
		return true
	})
	return expired
}

// publish replaces any undelivered state with the newest one
func publish(ch chan roadnet.State, state roadnet.State) {
	select {
	case ch <- state:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- state:
	default:
	}
}
