package harmonize

import "strings"

const (
	// CategorySoftware is the generic bucket for roles that mention
	// engineering without a more specific signal.
	CategorySoftware = "Software Engineering"
	// CategoryOther catches everything the taxonomy cannot place.
	CategoryOther = "Other"
)

type categoryRule struct {
	name  string
	subs  []string // substring match
	words []string // whole-word match, for tokens too short to substring
}

// Ordered taxonomy. Specific buckets come before broad ones on purpose:
// "Machine Learning Engineer" must land in ML, not generic engineering, and
// the bare "data" term has to sit behind every ML keyword.
var categoryRules = []categoryRule{
	{name: "Machine Learning / AI",
		subs:  []string{"machine learning", "deep learning", "artificial intelligence", "computer vision", "mlops", "llm"},
		words: []string{"ml", "ai", "nlp"}},
	{name: "Data Science & Analytics",
		subs: []string{"data scien", "data engineer", "data analy", "analytics", "business intelligence", "data"}},
	{name: "DevOps / SRE",
		subs:  []string{"devops", "site reliability", "platform engineer", "infrastructure", "cloud engineer", "reliability engineer"},
		words: []string{"sre"}},
	{name: "Security",
		subs: []string{"security", "appsec", "infosec", "cyber"}},
	{name: "Frontend",
		subs:  []string{"frontend", "front-end", "front end", "web developer"},
		words: []string{"react", "ui"}},
	{name: "Backend",
		subs:  []string{"backend", "back-end", "back end"},
		words: []string{"api"}},
	{name: "Full Stack",
		subs: []string{"full stack", "fullstack", "full-stack"}},
	{name: "Mobile",
		subs:  []string{"mobile", "android"},
		words: []string{"ios"}},
	{name: "QA / Testing",
		subs:  []string{"quality assurance", "quality engineer", "test engineer"},
		words: []string{"qa", "sdet"}},
	{name: "Hardware / Embedded",
		subs:  []string{"embedded", "hardware", "firmware"},
		words: []string{"fpga", "asic"}},
	{name: "Product & Design",
		subs:  []string{"product manager", "product design", "designer"},
		words: []string{"ux"}},
}

var genericRoleWords = []string{"software", "engineer", "developer", "programmer"}

// InferCategory maps a free-text role title onto the taxonomy, first match
// wins. Falls back to the generic software bucket, then to Other.
func InferCategory(role string) string {
	low := strings.ToLower(role)

	for _, r := range categoryRules {
		for _, s := range r.subs {
			if strings.Contains(low, s) {
				return r.name
			}
		}
		for _, w := range r.words {
			if containsWord(low, w) {
				return r.name
			}
		}
	}
	for _, w := range genericRoleWords {
		if strings.Contains(low, w) {
			return CategorySoftware
		}
	}
	return CategoryOther
}

// containsWord matches needle as a whole token, so "ai" never fires inside
// "maintain". Input is expected lowercase.
func containsWord(low, needle string) bool {
	fields := strings.FieldsFunc(low, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '+' || r == '#')
	})
	for _, f := range fields {
		if f == needle {
			return true
		}
	}
	return false
}
