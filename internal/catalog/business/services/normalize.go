package services

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize case-folds a free-form supplier string and collapses
// whitespace, giving a stable key for manufacturer/category matching.
func Normalize(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	return cases.Fold().String(collapsed)
}
