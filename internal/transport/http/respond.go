// Copyright 2026 The Shopcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopcore/shopcore/internal/observability/logger"
)

// API clients read outcomes from the response envelope, not from transport
// status codes: every response is HTTP 200 and carries the logical status
// inside the body. Only a failure to serialize the envelope itself surfaces
// as a transport error.
type Envelope struct {
	StatusCode    int    `json:"statusCode"`
	ResultMessage string `json:"resultMessage"`
	Data          any    `json:"data"`
}

// Guard messages are part of the wire contract and must not drift.
const (
	msgSuccess        = "Success"
	msgForbidden      = "You don't have permission to access."
	msgWebsiteInvalid = "Website is not valid."
	msgUnauthorized   = "Authentication is not valid."
	msgRateLimited    = "Too many requests."
	msgInternal       = "An unexpected error occurred."
)

func respond(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(Envelope{
		StatusCode:    statusCode,
		ResultMessage: message,
		Data:          data,
	}); err != nil {
		slog.Error("failed to encode response", logger.Error(err))
	}
}

func respondOK(w http.ResponseWriter, data any) {
	respond(w, http.StatusOK, msgSuccess, data)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respond(w, statusCode, message, nil)
}
