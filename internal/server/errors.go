// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoHTTPHandler is returned by NewServer when there is no collection
// API to serve or no address to serve it on.
var errNoHTTPHandler = errors.New("server: no HTTP handler or listen address configured")
