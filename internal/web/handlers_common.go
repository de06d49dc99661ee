package web

// This file contains shared request helpers used across handlers.

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/core"
)

// maxJSONBody caps JSON request bodies. Whole-grid replacements are the
// largest legitimate payload.
const maxJSONBody = 32 << 20

// decodeJSON reads a JSON request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// readBody returns the raw request body, capped at maxJSONBody.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return data, nil
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseBoolParam treats "1", "true" and "yes" as true.
func parseBoolParam(r *http.Request, name string) bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// parseSeverity reads the optional severity filter. Unknown values are an error.
func parseSeverity(r *http.Request) (core.Severity, error) {
	v := core.Severity(strings.ToLower(r.URL.Query().Get("severity")))
	switch v {
	case "", core.SeverityError, core.SeverityWarning, core.SeverityInfo:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown severity %q", errInvalidBody, v)
}

// contentTypeFor returns the MIME type of an export format.
func contentTypeFor(format string) string {
	switch format {
	case "csv":
		return "text/csv; charset=utf-8"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "yaml":
		return "application/yaml"
	case "html":
		return "text/html; charset=utf-8"
	}
	return "application/json"
}

// setAttachment marks the response as a file download.
func setAttachment(w http.ResponseWriter, filename, format string) {
	w.Header().Set("Content-Type", contentTypeFor(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
