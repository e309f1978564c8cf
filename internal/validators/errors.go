// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidCollection = errors.New("invalid collection name")
	ErrInvalidEntityID   = errors.New("entity _id must be a non-empty string")
	ErrInvalidMetadata   = errors.New("entity _kmd must be an object")
	ErrEmptyEntity       = errors.New("entity is empty")
)
