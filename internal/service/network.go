// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "sync/atomic"

// NetworkState tells cache-then-network stores whether they may reach the
// remote service on their own. Explicit push, pull and sync calls ignore it.
// A nil *NetworkState is always online.
type NetworkState struct {
	offline atomic.Bool
}

func NewNetworkState(online bool) *NetworkState {
	n := &NetworkState{}
	n.offline.Store(!online)
	return n
}

func (n *NetworkState) Online() bool {
	return n == nil || !n.offline.Load()
}

func (n *NetworkState) SetOnline(online bool) {
	n.offline.Store(!online)
}
