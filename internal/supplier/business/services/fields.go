package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Upstream documents spell the same field several ways depending on
// endpoint and account. These helpers try an ordered key chain and
// return the first usable value, keeping the precedence declarative.

func FirstNumber(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		switch n := value.(type) {
		case float64:
			if finite(n) {
				return n, true
			}
		case int:
			return float64(n), true
		case json.Number:
			if f, err := n.Float64(); err == nil && finite(f) {
				return f, true
			}
		case string:
			trimmed := strings.TrimSpace(n)
			if trimmed == "" {
				continue
			}
			if f, err := strconv.ParseFloat(trimmed, 64); err == nil && finite(f) {
				return f, true
			}
		}
	}
	return 0, false
}

func FirstString(m map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}

func FirstBool(m map[string]interface{}, keys ...string) (bool, bool) {
	for _, key := range keys {
		value, ok := m[key]
		if !ok || value == nil {
			continue
		}
		switch b := value.(type) {
		case bool:
			return b, true
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
				return parsed, true
			}
		}
	}
	return false, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
