package classify

import "github.com/leaacademy/coursegen/course"

// The rule tables below consolidate what used to be two divergent
// keyword chains into single ordered tables. Rules are data, evaluated
// top to bottom, first hit wins — adding a category or tag is a table
// edit, not a control-flow change.

// matchScope selects which text a rule is checked against.
type matchScope int

const (
	scopeFilename matchScope = iota
	scopeContent
)

// categoryRule maps keyword hits to a course category.
type categoryRule struct {
	scope    matchScope
	keywords []string
	category string
}

// FallbackCategory is assigned when no category rule fires.
const FallbackCategory = "Foundation Studies"

// categoryRules: filename checks first, then content, then fallback.
var categoryRules = []categoryRule{
	{scopeFilename, []string{"a&p", "anatomy"}, "Anatomy & Physiology"},
	{scopeFilename, []string{"cpr", "anaphylaxis"}, "Emergency Medicine"},
	{scopeFilename, []string{"safety"}, "Safety & Compliance"},
	{scopeFilename, []string{"dermal", "botulinum", "toxin"}, "Advanced Treatments"},
	{scopeContent, []string{"injection", "treatment"}, "Clinical Practice"},
}

// tagRule contributes tags when any keyword matches.
type tagRule struct {
	scope    matchScope
	keywords []string
	tags     []string
}

// levelTags are added based on the detected course level.
var levelTags = map[string][]string{
	course.Level2: {"level-2", "foundation"},
	course.Level3: {"level-3", "intermediate"},
	course.Level4: {"level-4", "advanced"},
}

// subjectTagRules key off the source filename.
var subjectTagRules = []tagRule{
	{scopeFilename, []string{"anatomy"}, []string{"anatomy", "physiology"}},
	{scopeFilename, []string{"cpr"}, []string{"cpr", "emergency", "first-aid"}},
	{scopeFilename, []string{"safety"}, []string{"safety", "compliance", "regulations"}},
	{scopeFilename, []string{"dermal"}, []string{"dermal-fillers", "injectables"}},
	{scopeFilename, []string{"botulinum"}, []string{"botox", "botulinum-toxin", "injectables"}},
}

// contentTagRules key off the extracted document text.
var contentTagRules = []tagRule{
	{scopeContent, []string{"facial"}, []string{"facial-aesthetics"}},
	{scopeContent, []string{"skin"}, []string{"skin-care"}},
	{scopeContent, []string{"injection"}, []string{"injection-techniques"}},
	{scopeContent, []string{"complication"}, []string{"complications-management"}},
}

// prerequisiteRule adds prerequisite course slugs when its predicate
// over (level, category) holds.
type prerequisiteRule struct {
	level    string // empty = any level
	category string // empty = any category
	slugs    []string
}

// prerequisiteRules encode the accreditation ladder: each level builds
// on the anatomy course one level below, and advanced treatments
// require the safety and emergency-response courses.
var prerequisiteRules = []prerequisiteRule{
	{level: course.Level3, slugs: []string{"anatomy-physiology-level-2"}},
	{level: course.Level4, slugs: []string{"anatomy-physiology-level-3"}},
	{category: "Advanced Treatments", slugs: []string{"safety-in-medicine", "cpr-and-anaphylaxis"}},
}

// creditMultipliers scale base credits by level. Missing levels default
// to 1.0.
var creditMultipliers = map[string]float64{
	course.Level3: 1.2,
	course.Level4: 1.5,
}
