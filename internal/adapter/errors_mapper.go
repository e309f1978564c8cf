// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-docsync/models"
)

var errorNames = map[string]error{
	models.ErrorEntityNotFound:           ErrNotFound,
	models.ErrorInsufficientCredentials:  ErrInsufficientCredentials,
	models.ErrorMissingConfiguration:     ErrIncrementalUnsupported,
	models.ErrorParameterValueOutOfRange: ErrOutOfRange,
	models.ErrorBadRequest:               ErrBadRequest,
	models.ErrorServerError:              ErrServer,
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	var errResp models.ErrorResponse
	if json.Unmarshal(resp.Body(), &errResp) == nil && errResp.Error != "" {
		if sentinel, ok := errorNames[errResp.Error]; ok {
			return fmt.Errorf("%w: %s", sentinel, errResp.Description)
		}
		body = errResp.Error + ": " + errResp.Description
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInsufficientCredentials, body)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrServer, code, body)
	default:
		if body == "" {
			body = http.StatusText(code)
		}
		return fmt.Errorf("http %d: %s", code, body)
	}
}
