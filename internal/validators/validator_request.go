// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-docsync/internal/query"
	"github.com/MKhiriev/go-docsync/models"
)

const (
	FieldID       = models.IDField
	FieldMetadata = models.MetadataField
	FieldBody     = "body"
)

const maxCollectionLength = 128

// Collection is a collection name taken from a request path.
type Collection string

type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case Collection:
		return validateCollection(value)

	case models.Entity:
		return v.validateEntity(ctx, value, fields...)
	case *models.Entity:
		if value == nil {
			return ErrEmptyEntity
		}
		return v.validateEntity(ctx, *value, fields...)

	case *models.Query:
		return query.Validate(value)
	case models.Query:
		return query.Validate(&value)

	default:
		return ErrUnsupportedType
	}
}

func validateCollection(c Collection) error {
	name := string(c)
	if strings.TrimSpace(name) == "" || len(name) > maxCollectionLength {
		return ErrInvalidCollection
	}
	if strings.ContainsAny(name, "/?#") {
		return ErrInvalidCollection
	}
	return nil
}

// validateEntity checks the reserved fields of an entity. A missing _id is
// valid: the service assigns one.
func (v *RequestValidator) validateEntity(_ context.Context, e models.Entity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBody, FieldID, FieldMetadata}
	}

	for _, f := range fields {
		switch f {
		case FieldBody:
			if e == nil {
				return ErrEmptyEntity
			}
		case FieldID:
			raw, ok := e[models.IDField]
			if !ok {
				continue
			}
			if id, isString := raw.(string); !isString || id == "" {
				return ErrInvalidEntityID
			}
		case FieldMetadata:
			raw, ok := e[models.MetadataField]
			if !ok || raw == nil {
				continue
			}
			if _, isObject := raw.(map[string]any); !isObject {
				return ErrInvalidMetadata
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
