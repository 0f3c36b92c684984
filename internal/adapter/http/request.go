package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/xeipuuv/gojsonschema"

	"github.com/couchcryptid/envdata-hub/internal/domain"
	"github.com/couchcryptid/envdata-hub/internal/pipeline"
)

const maxBodyBytes = 64 << 10

var (
	airQualitySchema = mustSchema(`{
		"type": "object",
		"additionalProperties": false,
		"properties": {
			"pollutant": {"type": "string", "enum": ["PM2.5", "PM10", "NO2", "CO", "O3"]},
			"dataType":  {"type": "string", "enum": ["measurement", "aqi"]},
			"yearFrom":  {"type": "integer", "minimum": 1800, "maximum": 2200},
			"yearTo":    {"type": "integer", "minimum": 1800, "maximum": 2200}
		}
	}`)

	waterSchema = mustSchema(`{
		"type": "object",
		"additionalProperties": false,
		"properties": {
			"site":       {"type": "string"},
			"waterYear":  {"type": "integer", "minimum": 1800, "maximum": 2200},
			"systemName": {"type": "string"}
		}
	}`)

	correlationSchema = mustSchema(`{
		"type": "object",
		"additionalProperties": false,
		"properties": {
			"yearFrom": {"type": "integer", "minimum": 1800, "maximum": 2200},
			"yearTo":   {"type": "integer", "minimum": 1800, "maximum": 2200}
		}
	}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return s
}

type errorBody struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// decode validates the request body against schema and unmarshals it into
// dst. An empty body is an empty query. On failure it writes a 400 and
// returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "read body: " + err.Error()})
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed JSON body"})
		return false
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body", Errors: msgs})
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "decode body: " + err.Error()})
		return false
	}
	return true
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var (
		loadErr   *domain.DataLoadError
		schemaErr *domain.SchemaError
		joinErr   *domain.JoinKeyError
	)
	switch {
	case errors.Is(err, pipeline.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr), errors.As(err, &joinErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &loadErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
