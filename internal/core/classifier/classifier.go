// Package classifier maps raw listing text to a canonical category
// and an ordered tag set.
package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/niksmo/good-goods/internal/core/domain"
)

// A Classifier is bound to the condition tag of a single source.
// The zero value classifies without a condition tag.
type Classifier struct {
	conditionTag string
}

func New(conditionTag string) Classifier {
	return Classifier{conditionTag: strings.TrimSpace(conditionTag)}
}

// Classify returns the category and tags for a listing. Tags are ordered
// as condition tag, demographic tag, category tags. It never fails.
func (c Classifier) Classify(
	name, rawCategory string,
) (domain.Category, []string) {
	t := newText(name, rawCategory)

	var tags tagSet
	tags.add(c.conditionTag)
	tags.add(demographic(t))

	for _, r := range categoryRules {
		if t.containsAny(r.keywords...) {
			tags.add(r.produceTags(t)...)
			return r.category, tags.list()
		}
	}
	return domain.CategoryMiscellaneous, tags.list()
}

func demographic(t text) string {
	for _, m := range demographicMarkers {
		if t.hasWordPrefix(m.words...) {
			return m.tag
		}
	}
	return ""
}

// A text holds the lowered inputs, each matched on its own.
type text [2]string

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

func newText(name, rawCategory string) text {
	norm := func(s string) string {
		return apostrophes.Replace(strings.ToLower(s))
	}
	return text{norm(name), norm(rawCategory)}
}

func (t text) containsAny(keywords ...string) bool {
	for _, s := range t {
		for _, kw := range keywords {
			if strings.Contains(s, kw) {
				return true
			}
		}
	}
	return false
}

func (t text) nameContainsAny(keywords ...string) bool {
	return text{t[0]}.containsAny(keywords...)
}

func (t text) hasWordPrefix(words ...string) bool {
	for _, s := range t {
		for _, w := range words {
			if indexWordPrefix(s, w) >= 0 {
				return true
			}
		}
	}
	return false
}

// indexWordPrefix finds w where it is not preceded by a letter.
func indexWordPrefix(s, w string) int {
	offset := 0
	for {
		i := strings.Index(s[offset:], w)
		if i < 0 {
			return -1
		}
		at := offset + i
		if at == 0 {
			return at
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:at])
		if !unicode.IsLetter(prev) {
			return at
		}
		offset = at + 1
	}
}

type tagSet []string

func (ts *tagSet) add(tags ...string) {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		dup := false
		for _, v := range *ts {
			if v == tag {
				dup = true
				break
			}
		}
		if !dup {
			*ts = append(*ts, tag)
		}
	}
}

func (ts tagSet) list() []string {
	return append([]string{}, ts...)
}
