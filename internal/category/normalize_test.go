package category

import (
	"strings"
	"testing"

	"github.com/Veraticus/stockroom/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalize_SynonymTable(t *testing.T) {
	expected := map[model.CanonicalCategory][]string{
		model.CategoryElectronics: {
			"electronics", "electronic", "electronic devices", "devices", "gadgets", "tech", "technology",
		},
		model.CategoryOfficeSupplies: {
			"office supplies", "office-supplies", "officesupplies", "office", "supplies",
			"stationery", "stationary", "office items", "office materials",
		},
		model.CategoryCleaningMaterials: {
			"cleaning materials", "cleaning", "cleaner", "cleaners",
		},
		model.CategoryFurniture: {
			"furniture", "furnishing", "furnishings", "office furniture",
		},
		model.CategorySoftware: {
			"software", "programs", "applications", "apps", "digital",
		},
	}

	for want, labels := range expected {
		for _, label := range labels {
			variants := []string{label, strings.ToUpper(label), "  " + label + "\t", strings.ToUpper(label[:1]) + label[1:]}
			for _, v := range variants {
				t.Run(v, func(t *testing.T) {
					assert.Equal(t, want, Normalize(v))
				})
			}
		}
	}
}

func TestNormalize_TableIsComplete(t *testing.T) {
	assert.Len(t, Synonyms(), 29)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  model.CanonicalCategory
	}{
		{name: "empty", label: "", want: model.CategoryOther},
		{name: "whitespace only", label: "   ", want: model.CategoryOther},
		{name: "unrelated", label: "xyzzy-unrelated", want: model.CategoryOther},
		{name: "padded office supplies", label: " Office Supplies ", want: model.CategoryOfficeSupplies},
		{name: "upper tech", label: "TECH", want: model.CategoryElectronics},
		{name: "canonical cleaning code", label: "cleaning-materials", want: model.CategoryCleaningMaterials},
		{name: "canonical other code", label: "other", want: model.CategoryOther},
		{name: "kanebo brand", label: "Kanebo wipes", want: model.CategoryCleaningMaterials},
		{name: "cleaning beats office", label: "office cleaning kit", want: model.CategoryCleaningMaterials},
		{name: "office beats electronics", label: "office tech", want: model.CategoryOfficeSupplies},
		{name: "office beats furniture in cascade", label: "office chair", want: model.CategoryOfficeSupplies},
		{name: "exact office furniture wins over cascade", label: "Office Furniture", want: model.CategoryFurniture},
		{name: "electronics beats furniture", label: "tech desk", want: model.CategoryElectronics},
		{name: "furniture beats software", label: "desk app", want: model.CategoryFurniture},
		{name: "chair", label: "Ergonomic Chair", want: model.CategoryFurniture},
		{name: "supply singular", label: "paper supply", want: model.CategoryOfficeSupplies},
		{name: "device", label: "mobile device", want: model.CategoryElectronics},
		{name: "gadget", label: "gadget accessories", want: model.CategoryElectronics},
		{name: "program", label: "training program", want: model.CategorySoftware},
		{name: "app substring", label: "mobile apps license", want: model.CategorySoftware},
		{name: "digital subscription", label: "digital subscription", want: model.CategorySoftware},
		{name: "unicode noise", label: "café", want: model.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.label))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	for _, label := range []string{"Office Tech", "cleaning", "", "Programs"} {
		first := Normalize(label)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Normalize(label))
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "all equals all", a: "all", b: "all", want: true},
		{name: "all is not electronics", a: "all", b: "electronics", want: false},
		{name: "electronics is not all", a: "electronics", b: "all", want: false},
		{name: "all is not normalized", a: "all", b: "other", want: false},
		{name: "synonym vs canonical", a: "Tech", b: "electronics", want: true},
		{name: "two synonyms", a: "stationery", b: "office items", want: true},
		{name: "different categories", a: "chair", b: "cleaner", want: false},
		{name: "unknowns both other", a: "foo", b: "", want: true},
		{name: "case differences", a: "SOFTWARE", b: "apps", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("", "anything"))
	assert.True(t, Matches(All, "anything"))
	assert.True(t, Matches("gadgets", "Tech"))
	assert.False(t, Matches("furniture", "Tech"))
}
