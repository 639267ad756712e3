package detection

import (
	"strings"

	"github.com/aanewg/listingshield/internal/domain/models"
)

// priceRange is a min/max band in USD. The midpoint serves as the
// market average for deviation checks.
type priceRange struct {
	Min float64
	Max float64
}

func (r priceRange) midpoint() float64 {
	return (r.Min + r.Max) / 2
}

// priceRule matches a named product by title keywords. Every keyword
// must appear in the lowercased title for the rule to apply.
type priceRule struct {
	Keywords []string
	Range    priceRange
	Name     string
}

// PriceReference resolves listing titles to estimated market prices.
// Rules are ordered most-specific first so "iphone 15 pro max" wins
// over "iphone 15".
type PriceReference struct {
	rules            []priceRule
	categoryAverages map[models.Category]float64
}

// NewPriceReference builds the reference with the built-in rule set.
func NewPriceReference() *PriceReference {
	return &PriceReference{
		rules:            defaultPriceRules(),
		categoryAverages: defaultCategoryAverages(),
	}
}

// MarketAverage returns the estimated market average for a title, the
// name of the rule that matched, and whether any reference was found.
// Named product rules are tried in order before the category fallback.
func (p *PriceReference) MarketAverage(title string, category models.Category) (avg float64, rule string, ok bool) {
	lower := strings.ToLower(title)

	for _, r := range p.rules {
		matched := true
		for _, kw := range r.Keywords {
			if !strings.Contains(lower, kw) {
				matched = false
				break
			}
		}
		if matched {
			return r.Range.midpoint(), r.Name, true
		}
	}

	if catAvg, found := p.categoryAverages[category]; found {
		return catAvg, "category:" + string(category), true
	}

	return 0, "", false
}

// DeviationPercent is negative when the listing price is below the
// market average (-52 means 52% below).
func DeviationPercent(listingPrice, marketAvg float64) float64 {
	return ((listingPrice - marketAvg) / marketAvg) * 100
}

func rule(rang priceRange, keywords ...string) priceRule {
	return priceRule{Keywords: keywords, Range: rang, Name: strings.Join(keywords, "+")}
}

func defaultPriceRules() []priceRule {
	return []priceRule{
		// Electronics
		rule(priceRange{150, 180}, "airpods pro"),
		rule(priceRange{280, 380}, "airpods max"),
		rule(priceRange{80, 120}, "airpods"),
		rule(priceRange{750, 1000}, "iphone 15 pro max"),
		rule(priceRange{650, 850}, "iphone 15 pro"),
		rule(priceRange{500, 700}, "iphone 15"),
		rule(priceRange{380, 550}, "iphone 14"),
		rule(priceRange{280, 420}, "iphone 13"),
		rule(priceRange{350, 450}, "ps5", "playstation 5"),
		rule(priceRange{350, 450}, "xbox series x"),
		rule(priceRange{220, 300}, "nintendo switch oled"),
		rule(priceRange{200, 280}, "nintendo switch"),
		rule(priceRange{400, 550}, "dyson v15"),
		rule(priceRange{300, 420}, "dyson v12"),
		rule(priceRange{250, 380}, "dyson v11"),
		rule(priceRange{350, 480}, "dyson airwrap"),
		rule(priceRange{1200, 1800}, "macbook pro 16"),
		rule(priceRange{900, 1400}, "macbook pro 14"),
		rule(priceRange{700, 1100}, "macbook air"),
		rule(priceRange{600, 1000}, "ipad pro"),
		rule(priceRange{400, 600}, "ipad air"),
		rule(priceRange{200, 400}, "ipad"),
		rule(priceRange{50, 120}, "canon powershot"),
		rule(priceRange{400, 900}, "canon eos"),
		rule(priceRange{200, 300}, "sony wh-1000xm5"),
		rule(priceRange{450, 700}, "samsung galaxy s24"),

		// Shoes / sneakers
		rule(priceRange{80, 140}, "nike dunk low"),
		rule(priceRange{90, 160}, "nike dunk high"),
		rule(priceRange{150, 300}, "air jordan 1 retro high"),
		rule(priceRange{100, 220}, "air jordan 1"),
		rule(priceRange{200, 400}, "air jordan 4"),
		rule(priceRange{180, 320}, "yeezy 350"),
		rule(priceRange{80, 140}, "new balance 550"),
		rule(priceRange{40, 80}, "converse chuck taylor"),
		rule(priceRange{100, 160}, "ugg classic"),
		rule(priceRange{350, 550}, "golden goose"),

		// Handbags / luxury
		rule(priceRange{800, 1500}, "louis vuitton neverfull"),
		rule(priceRange{600, 1200}, "louis vuitton speedy"),
		rule(priceRange{400, 2000}, "louis vuitton"),
		rule(priceRange{5000, 9000}, "chanel classic flap"),
		rule(priceRange{2000, 7000}, "chanel bag"),
		rule(priceRange{700, 1200}, "gucci soho"),
		rule(priceRange{400, 2000}, "gucci"),
		rule(priceRange{500, 900}, "prada nylon"),
		rule(priceRange{80, 300}, "coach"),
		rule(priceRange{80, 250}, "kate spade"),
		rule(priceRange{60, 200}, "michael kors"),

		// Beauty
		rule(priceRange{30, 50}, "charlotte tilbury pillow talk"),
		rule(priceRange{25, 45}, "nars foundation"),
		rule(priceRange{18, 38}, "rare beauty"),

		// Clothing
		rule(priceRange{60, 100}, "lululemon align"),
		rule(priceRange{40, 120}, "lululemon"),
		rule(priceRange{400, 900}, "canada goose"),
		rule(priceRange{200, 450}, "supreme hoodie"),
	}
}

func defaultCategoryAverages() map[models.Category]float64 {
	return map[models.Category]float64{
		models.CategoryElectronics:  200,
		models.CategoryClothing:     60,
		models.CategoryShoes:        100,
		models.CategoryHandbags:     300,
		models.CategoryBeauty:       35,
		models.CategoryHome:         80,
		models.CategoryToys:         40,
		models.CategoryCollectibles: 120,
		models.CategoryOther:        75,
	}
}
