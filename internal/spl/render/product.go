package render

import (
	"sort"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/spl/dto"
)

type ActiveIngredientRendering struct {
	Ingredient            *dto.ActiveIngredient
	HasStrength           bool
	HasReferenceSubstance bool
}

type CharacteristicRendering struct {
	Characteristic *dto.Characteristic
	// IsCoded selects attribute-valued rendering (CE/CV) over text-valued.
	IsCoded bool
}

type PackagingRendering struct {
	Level       *dto.PackagingLevel
	HasChildren bool
	Children    []*PackagingRendering
}

type ProductRendering struct {
	Product             *dto.Product
	Identifiers         []*dto.ProductIdentifier
	ActiveIngredients   []*ActiveIngredientRendering
	InactiveIngredients []*dto.InactiveIngredient
	Packaging           []*PackagingRendering
	Characteristics     []*CharacteristicRendering
	HasGenericName      bool
	HasForm             bool
	HasPackaging        bool
	HasCharacteristics  bool
}

// IngredientPreparer, PackagingPreparer and CharacteristicPreparer are
// pure per-aggregate services; ProductPreparer composes them for the
// nested product shape.
type IngredientPreparer struct{}

func (IngredientPreparer) PrepareActive(ingredients []*dto.ActiveIngredient) []*ActiveIngredientRendering {
	ordered := make([]*dto.ActiveIngredient, len(ingredients))
	copy(ordered, ingredients)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNumber < ordered[j].SequenceNumber
	})
	out := make([]*ActiveIngredientRendering, 0, len(ordered))
	for _, ing := range ordered {
		out = append(out, &ActiveIngredientRendering{
			Ingredient:            ing,
			HasStrength:           ing.StrengthNumerator != "",
			HasReferenceSubstance: ing.ReferenceSubstanceName != "",
		})
	}
	return out
}

func (IngredientPreparer) PrepareInactive(ingredients []*dto.InactiveIngredient) []*dto.InactiveIngredient {
	ordered := make([]*dto.InactiveIngredient, len(ingredients))
	copy(ordered, ingredients)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNumber < ordered[j].SequenceNumber
	})
	return ordered
}

type PackagingPreparer struct{}

func (p PackagingPreparer) Prepare(levels []*dto.PackagingLevel) []*PackagingRendering {
	ordered := make([]*dto.PackagingLevel, len(levels))
	copy(ordered, levels)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNumber < ordered[j].SequenceNumber
	})
	out := make([]*PackagingRendering, 0, len(ordered))
	for _, level := range ordered {
		out = append(out, &PackagingRendering{
			Level:       level,
			HasChildren: len(level.Children) > 0,
			Children:    p.Prepare(level.Children),
		})
	}
	return out
}

type CharacteristicPreparer struct{}

func (CharacteristicPreparer) Prepare(characteristics []*dto.Characteristic) []*CharacteristicRendering {
	ordered := make([]*dto.Characteristic, len(characteristics))
	copy(ordered, characteristics)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNumber < ordered[j].SequenceNumber
	})
	out := make([]*CharacteristicRendering, 0, len(ordered))
	for _, ch := range ordered {
		out = append(out, &CharacteristicRendering{
			Characteristic: ch,
			IsCoded:        ch.ValueCode != "",
		})
	}
	return out
}

type ProductPreparer struct {
	log             *logger.Logger
	ingredients     IngredientPreparer
	packaging       PackagingPreparer
	characteristics CharacteristicPreparer
}

func NewProductPreparer(baseLog *logger.Logger) *ProductPreparer {
	return &ProductPreparer{log: baseLog.With("render", "product")}
}

func (p *ProductPreparer) Prepare(products []*dto.Product) []*ProductRendering {
	ordered := make([]*dto.Product, len(products))
	copy(ordered, products)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SequenceNumber < ordered[j].SequenceNumber
	})
	out := make([]*ProductRendering, 0, len(ordered))
	for _, prod := range ordered {
		r := &ProductRendering{
			Product:             prod,
			Identifiers:         prod.Identifiers,
			ActiveIngredients:   p.ingredients.PrepareActive(prod.ActiveIngredients),
			InactiveIngredients: p.ingredients.PrepareInactive(prod.InactiveIngredients),
			Packaging:           p.packaging.Prepare(prod.Packaging),
			Characteristics:     p.characteristics.Prepare(prod.Characteristics),
			HasGenericName:      prod.GenericName != "",
			HasForm:             prod.FormCode != "",
		}
		r.HasPackaging = len(r.Packaging) > 0
		r.HasCharacteristics = len(r.Characteristics) > 0
		out = append(out, r)
	}
	return out
}
