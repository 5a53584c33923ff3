package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/types"
)

// ProductParser handles one <manufacturedProduct> subtree: the product
// row, its NDC-style identifiers, ingredients, packaging nesting and
// coded characteristics.
type ProductParser struct {
	log *logger.Logger
}

func NewProductParser(baseLog *logger.Logger) *ProductParser {
	return &ProductParser{log: baseLog.With("parser", "product")}
}

func (p *ProductParser) Parse(ctx context.Context, el *etree.Element, pctx *Context, section *types.Section, seq int) error {
	name := childText(el, "name")
	if name == "" {
		return fmt.Errorf("manufacturedProduct without a name")
	}

	form := childCode(el, "formCode")
	product := &types.Product{
		ID:              uuid.New(),
		SectionID:       section.ID,
		Name:            name,
		NameSuffix:      childText(el, "suffix"),
		GenericName:     genericName(el),
		FormCode:        form.Code,
		FormCodeSystem:  form.CodeSystem,
		FormDisplayName: form.DisplayName,
		DescriptionText: childText(el, "desc"),
		SequenceNumber:  seq,
		CreatedAt:       time.Now(),
	}
	if _, err := pctx.Repos.Product.Create(ctx, pctx.Tx, []*types.Product{product}); err != nil {
		return fmt.Errorf("persist product %q: %w", name, err)
	}
	pctx.Result.Increment("products", 1)

	if err := p.parseIdentifiers(ctx, pctx, el, product); err != nil {
		return err
	}
	if err := p.parseIngredients(ctx, pctx, el, product); err != nil {
		return err
	}
	if err := p.parsePackaging(ctx, pctx, el, product); err != nil {
		return err
	}
	return p.parseCharacteristics(ctx, pctx, el, product)
}

func genericName(el *etree.Element) string {
	if gen := el.FindElement("asEntityWithGeneric/genericMedicine/name"); gen != nil {
		return strings.TrimSpace(gen.Text())
	}
	return ""
}

func (p *ProductParser) parseIdentifiers(ctx context.Context, pctx *Context, el *etree.Element, product *types.Product) error {
	var rows []*types.ProductIdentifier
	for _, codeEl := range el.SelectElements("code") {
		value := strings.TrimSpace(codeEl.SelectAttrValue("code", ""))
		if value == "" {
			continue
		}
		rows = append(rows, &types.ProductIdentifier{
			ID:               uuid.New(),
			ProductID:        product.ID,
			IdentifierValue:  value,
			IdentifierSystem: codeEl.SelectAttrValue("codeSystem", ""),
			IdentifierType:   "NDC",
			CreatedAt:        time.Now(),
		})
	}
	if _, err := pctx.Repos.ProductIdentifier.Create(ctx, pctx.Tx, rows); err != nil {
		return fmt.Errorf("persist product identifiers: %w", err)
	}
	pctx.Result.Increment("product_identifiers", len(rows))
	return nil
}

func (p *ProductParser) parseIngredients(ctx context.Context, pctx *Context, el *etree.Element, product *types.Product) error {
	var active []*types.ActiveIngredient
	var inactive []*types.InactiveIngredient
	activeSeq, inactiveSeq := 0, 0

	for _, ing := range el.SelectElements("ingredient") {
		classCode := strings.ToUpper(ing.SelectAttrValue("classCode", ""))
		substance := ing.SelectElement("ingredientSubstance")
		if substance == nil {
			substance = ing.SelectElement("activeIngredientSubstance")
		}
		if substance == nil {
			substance = ing.SelectElement("inactiveIngredientSubstance")
		}
		if substance == nil {
			continue
		}
		subCode := childCode(substance, "code")

		switch classCode {
		case "ACTIB", "ACTIM", "ACTIR":
			activeSeq++
			row := &types.ActiveIngredient{
				ID:                  uuid.New(),
				ProductID:           product.ID,
				SubstanceName:       childText(substance, "name"),
				SubstanceCode:       subCode.Code,
				SubstanceCodeSystem: subCode.CodeSystem,
				SequenceNumber:      activeSeq,
				CreatedAt:           time.Now(),
			}
			if refSub := substance.FindElement("asEquivalentSubstance/definingSubstance/name"); refSub != nil {
				row.ReferenceSubstanceName = strings.TrimSpace(refSub.Text())
			}
			if qty := ing.SelectElement("quantity"); qty != nil {
				row.StrengthNumerator = attrValue(qty, "numerator", "value")
				row.StrengthNumeratorUnit = attrValue(qty, "numerator", "unit")
				row.StrengthDenominator = attrValue(qty, "denominator", "value")
				row.StrengthDenomUnit = attrValue(qty, "denominator", "unit")
			}
			active = append(active, row)
		default:
			inactiveSeq++
			inactive = append(inactive, &types.InactiveIngredient{
				ID:                  uuid.New(),
				ProductID:           product.ID,
				SubstanceName:       childText(substance, "name"),
				SubstanceCode:       subCode.Code,
				SubstanceCodeSystem: subCode.CodeSystem,
				SequenceNumber:      inactiveSeq,
				CreatedAt:           time.Now(),
			})
		}
	}

	if _, err := pctx.Repos.Ingredient.CreateActive(ctx, pctx.Tx, active); err != nil {
		return fmt.Errorf("persist active ingredients: %w", err)
	}
	if _, err := pctx.Repos.Ingredient.CreateInactive(ctx, pctx.Tx, inactive); err != nil {
		return fmt.Errorf("persist inactive ingredients: %w", err)
	}
	pctx.Result.Increment("active_ingredients", len(active))
	pctx.Result.Increment("inactive_ingredients", len(inactive))
	return nil
}

func (p *ProductParser) parsePackaging(ctx context.Context, pctx *Context, el *etree.Element, product *types.Product) error {
	seq := 0
	for _, asContent := range el.SelectElements("asContent") {
		seq++
		if err := p.persistPackagingLevel(ctx, pctx, asContent, &product.ID, nil, seq); err != nil {
			return err
		}
	}
	return nil
}

// persistPackagingLevel writes one asContent/containerPackagedProduct
// level and recurses into nested asContent children. The nesting depth is
// bounded by the document itself.
func (p *ProductParser) persistPackagingLevel(ctx context.Context, pctx *Context, asContent *etree.Element, productID, parentID *uuid.UUID, seq int) error {
	container := asContent.SelectElement("containerPackagedProduct")
	if container == nil {
		return nil
	}

	form := childCode(container, "formCode")
	level := &types.PackagingLevel{
		ID:                    uuid.New(),
		ProductID:             productID,
		ParentPackagingID:     parentID,
		PackageFormCode:       form.Code,
		PackageFormCodeSystem: form.CodeSystem,
		PackageFormName:       form.DisplayName,
		SequenceNumber:        seq,
		CreatedAt:             time.Now(),
	}
	if qty := asContent.SelectElement("quantity"); qty != nil {
		level.QuantityValue = attrValue(qty, "numerator", "value")
		level.QuantityUnit = attrValue(qty, "numerator", "unit")
	}
	if _, err := pctx.Repos.Packaging.CreateLevels(ctx, pctx.Tx, []*types.PackagingLevel{level}); err != nil {
		return fmt.Errorf("persist packaging level: %w", err)
	}
	pctx.Result.Increment("packaging_levels", 1)

	var ids []*types.PackageIdentifier
	for _, codeEl := range container.SelectElements("code") {
		value := strings.TrimSpace(codeEl.SelectAttrValue("code", ""))
		if value == "" {
			continue
		}
		ids = append(ids, &types.PackageIdentifier{
			ID:               uuid.New(),
			PackagingLevelID: level.ID,
			IdentifierValue:  value,
			IdentifierSystem: codeEl.SelectAttrValue("codeSystem", ""),
			IdentifierType:   "NDCPackage",
			CreatedAt:        time.Now(),
		})
	}
	if _, err := pctx.Repos.Packaging.CreateIdentifiers(ctx, pctx.Tx, ids); err != nil {
		return fmt.Errorf("persist package identifiers: %w", err)
	}

	childSeq := 0
	for _, nested := range container.SelectElements("asContent") {
		childSeq++
		if err := p.persistPackagingLevel(ctx, pctx, nested, nil, &level.ID, childSeq); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProductParser) parseCharacteristics(ctx context.Context, pctx *Context, el *etree.Element, product *types.Product) error {
	var rows []*types.ProductCharacteristic
	seq := 0
	for _, subjectOf := range el.SelectElements("subjectOf") {
		charEl := subjectOf.SelectElement("characteristic")
		if charEl == nil {
			continue
		}
		seq++
		code := childCode(charEl, "code")
		row := &types.ProductCharacteristic{
			ID:                   uuid.New(),
			ProductID:            product.ID,
			CharacteristicCode:   code.Code,
			CharacteristicSystem: code.CodeSystem,
			SequenceNumber:       seq,
			CreatedAt:            time.Now(),
		}
		if valueEl := charEl.SelectElement("value"); valueEl != nil {
			row.ValueType = valueEl.SelectAttrValue("xsi:type", "")
			row.ValueCode = valueEl.SelectAttrValue("code", "")
			row.ValueCodeSystem = valueEl.SelectAttrValue("codeSystem", "")
			row.ValueDisplayName = valueEl.SelectAttrValue("displayName", "")
			row.ValueUnit = valueEl.SelectAttrValue("unit", "")
			if v := valueEl.SelectAttrValue("value", ""); v != "" {
				row.ValueText = v
			} else {
				row.ValueText = strings.TrimSpace(valueEl.Text())
			}
		}
		rows = append(rows, row)
	}
	if _, err := pctx.Repos.Characteristic.Create(ctx, pctx.Tx, rows); err != nil {
		return fmt.Errorf("persist product characteristics: %w", err)
	}
	pctx.Result.Increment("characteristics", len(rows))
	return nil
}
