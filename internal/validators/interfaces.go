// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks requests to the collection service before they
// reach the service layer.
//
// Core concepts:
//   - Validator: generic interface to validate arbitrary values.
//     Supports optional field-level scoping for targeted validation.
//
// Handlers call Validate with the request context, the decoded value and,
// optionally, the names of the fields to check.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
