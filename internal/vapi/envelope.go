// Package vapi normalizes the two request shapes this backend accepts: a
// direct JSON body, and the voice platform's nested tool-call envelope. Every
// handler runs against the one canonical Params shape this package produces.
package vapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Params is the canonical request parameter record. All access goes through
// typed getters with explicit defaults; handlers never poke at raw maps.
type Params struct {
	values map[string]any

	// ToolCallID echoes the platform's tool call id so responses can be
	// correlated; empty for direct requests.
	ToolCallID string
}

type envelope struct {
	Message struct {
		Type      string     `json:"type"`
		ToolCalls []toolCall `json:"toolCalls"`
		// Older platform versions used toolCallList.
		ToolCallList []toolCall `json:"toolCallList"`
	} `json:"message"`
}

type toolCall struct {
	ID       string `json:"id"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// ParseBody normalizes a request body. A body carrying a tool-call envelope
// yields the first tool call's arguments; anything else is treated as a
// direct parameter object. An empty body yields empty Params.
func ParseBody(body []byte) (Params, error) {
	if len(body) == 0 {
		return Params{values: map[string]any{}}, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		calls := env.Message.ToolCalls
		if len(calls) == 0 {
			calls = env.Message.ToolCallList
		}
		if len(calls) > 0 {
			return paramsFromToolCall(calls[0])
		}
	}

	var direct map[string]any
	if err := json.Unmarshal(body, &direct); err != nil {
		return Params{}, fmt.Errorf("vapi: parse request body: %w", err)
	}
	return Params{values: direct}, nil
}

// paramsFromToolCall decodes tool-call arguments, which the platform sends
// either as an object or as a JSON-encoded string.
func paramsFromToolCall(call toolCall) (Params, error) {
	raw := call.Function.Arguments
	if len(raw) == 0 {
		return Params{values: map[string]any{}, ToolCallID: call.ID}, nil
	}

	var values map[string]any
	if err := json.Unmarshal(raw, &values); err == nil {
		return Params{values: values, ToolCallID: call.ID}, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return Params{}, fmt.Errorf("vapi: parse tool-call arguments: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return Params{}, fmt.Errorf("vapi: parse encoded tool-call arguments: %w", err)
	}
	return Params{values: values, ToolCallID: call.ID}, nil
}

// FromQuery builds Params from URL query parameters (GET variants).
func FromQuery(query map[string]string) Params {
	values := make(map[string]any, len(query))
	for k, v := range query {
		values[k] = v
	}
	return Params{values: values}
}

// String returns the trimmed string under any of the given keys, first
// present wins. Missing or non-string values yield "".
func (p Params) String(keys ...string) string {
	for _, key := range keys {
		v, ok := p.values[key]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Int returns the value under any of the given keys as an int, accepting
// JSON numbers and numeric strings. Missing or malformed values yield 0.
func (p Params) Int(keys ...string) int {
	for _, key := range keys {
		switch v := p.values[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

// StringSlice returns the value under the key as a string slice, accepting a
// JSON array or a comma-separated string.
func (p Params) StringSlice(key string) []string {
	switch v := p.values[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Has reports whether any of the keys is present at all.
func (p Params) Has(keys ...string) bool {
	for _, key := range keys {
		if _, ok := p.values[key]; ok {
			return true
		}
	}
	return false
}
