// Package category maps free-text category labels onto the fixed set of
// canonical categories.
package category

import (
	"strings"

	"github.com/Veraticus/stockroom/internal/model"
)

// All is the filter value meaning "no category filter". It is never
// normalized and only equals itself.
const All = "all"

// Normalize maps a label to its canonical category. It never fails:
// anything unrecognized, including the empty string, becomes "other".
func Normalize(label string) model.CanonicalCategory {
	if label == "" {
		label = string(model.CategoryOther)
	}

	normalized := strings.ToLower(strings.TrimSpace(label))

	if cat, ok := synonyms[normalized]; ok {
		return cat
	}

	for _, rule := range keywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule.Result
			}
		}
	}

	return model.CategoryOther
}

// Equal reports whether two labels name the same category. The All filter
// value is compared literally.
func Equal(a, b string) bool {
	if a == All || b == All {
		return a == b
	}
	return Normalize(a) == Normalize(b)
}

// Matches reports whether label passes filter. An empty filter or All
// lets everything through.
func Matches(filter, label string) bool {
	if filter == "" || filter == All {
		return true
	}
	return Equal(filter, label)
}
