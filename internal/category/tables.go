package category

import "github.com/Veraticus/stockroom/internal/model"

// synonyms maps lower-cased exact labels to their canonical category.
var synonyms = map[string]model.CanonicalCategory{
	"electronics":        model.CategoryElectronics,
	"electronic":         model.CategoryElectronics,
	"electronic devices": model.CategoryElectronics,
	"devices":            model.CategoryElectronics,
	"gadgets":            model.CategoryElectronics,
	"tech":               model.CategoryElectronics,
	"technology":         model.CategoryElectronics,
	"office supplies":    model.CategoryOfficeSupplies,
	"office-supplies":    model.CategoryOfficeSupplies,
	"officesupplies":     model.CategoryOfficeSupplies,
	"office":             model.CategoryOfficeSupplies,
	"supplies":           model.CategoryOfficeSupplies,
	"stationery":         model.CategoryOfficeSupplies,
	"stationary":         model.CategoryOfficeSupplies,
	"office items":       model.CategoryOfficeSupplies,
	"office materials":   model.CategoryOfficeSupplies,
	"cleaning materials": model.CategoryCleaningMaterials,
	"cleaning":           model.CategoryCleaningMaterials,
	"cleaner":            model.CategoryCleaningMaterials,
	"cleaners":           model.CategoryCleaningMaterials,
	"furniture":          model.CategoryFurniture,
	"furnishing":         model.CategoryFurniture,
	"furnishings":        model.CategoryFurniture,
	"office furniture":   model.CategoryFurniture,
	"software":           model.CategorySoftware,
	"programs":           model.CategorySoftware,
	"applications":       model.CategorySoftware,
	"apps":               model.CategorySoftware,
	"digital":            model.CategorySoftware,
}

// keywordRule assigns Result when any keyword is a substring of the label.
type keywordRule struct {
	Result   model.CanonicalCategory
	Keywords []string
}

// keywordRules is evaluated in order; the first matching rule wins.
var keywordRules = []keywordRule{
	{Result: model.CategoryCleaningMaterials, Keywords: []string{"clean", "kanebo"}},
	{Result: model.CategoryOfficeSupplies, Keywords: []string{"office", "supply", "supplies", "stationery"}},
	{Result: model.CategoryElectronics, Keywords: []string{"electronic", "device", "tech", "gadget"}},
	{Result: model.CategoryFurniture, Keywords: []string{"furniture", "furnish", "chair", "table", "desk"}},
	{Result: model.CategorySoftware, Keywords: []string{"software", "program", "app", "digital"}},
}

// Synonyms returns a copy of the exact-match table.
func Synonyms() map[string]model.CanonicalCategory {
	out := make(map[string]model.CanonicalCategory, len(synonyms))
	for k, v := range synonyms {
		out[k] = v
	}
	return out
}
