package classifier

import "github.com/niksmo/good-goods/internal/core/domain"

// A subTag is appended when any of its keywords is found in the name.
type subTag struct {
	tag      string
	keywords []string
}

// A rule assigns its category when any of its keywords is found
// and produces the fixed tags followed by the matching sub-tags.
type rule struct {
	category domain.Category
	keywords []string
	tags     []string
	subTags  []subTag
}

func (r rule) produceTags(t text) (tags []string) {
	tags = append(tags, r.tags...)
	for _, st := range r.subTags {
		if t.nameContainsAny(st.keywords...) {
			tags = append(tags, st.tag)
		}
	}
	return tags
}

// Evaluated top down, the first matching rule wins.
var categoryRules = []rule{
	{
		category: domain.CategoryDresses,
		keywords: []string{"dress"},
		tags:     []string{"Dresses"},
	},
	{
		category: domain.CategoryTops,
		keywords: []string{
			"top", "shirt", "tee", "blouse", "sweater", "hoodie", "tank",
		},
		subTags: []subTag{
			{"Shirts", []string{"shirt", "tee"}},
			{"Sweaters", []string{"sweater"}},
			{"Blouses", []string{"blouse"}},
			{"Hoodies", []string{"hoodie"}},
			{"Tanks", []string{"tank"}},
		},
	},
	{
		category: domain.CategoryBottoms,
		keywords: []string{"pant"},
		tags:     []string{"Pants"},
	},
	{
		category: domain.CategoryBottoms,
		keywords: []string{"short", "trunk"},
		tags:     []string{"Shorts"},
		subTags: []subTag{
			{"Trunks", []string{"trunk"}},
		},
	},
	{
		category: domain.CategoryOuterwear,
		keywords: []string{"jacket", "pullover", "coat"},
		subTags: []subTag{
			{"Jackets", []string{"jacket"}},
			{"Pullovers", []string{"pullover"}},
			{"Coats", []string{"coat"}},
		},
	},
	{
		category: domain.CategoryMiscellaneous,
		keywords: []string{"hat", "belt"},
		subTags: []subTag{
			{"Hats", []string{"hat"}},
			{"Belts", []string{"belt"}},
		},
	},
}

const (
	TagMen   = "Men's"
	TagWomen = "Women's"
	TagKids  = "Kids"
)

// A marker maps demographic words to a tag. Markers only match at the
// start of a word so that "women's" never reads as "men's".
type marker struct {
	tag   string
	words []string
}

var demographicMarkers = []marker{
	{TagMen, []string{"men's", "mens", "m's"}},
	{TagWomen, []string{"women's", "womens", "w's"}},
	{TagKids, []string{"kid"}},
}
