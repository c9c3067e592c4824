package harmonize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferCategory(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		// specific beats generic
		"Machine Learning Engineer":   "Machine Learning / AI",
		"AI Research Scientist":       "Machine Learning / AI",
		"NLP Engineer":                "Machine Learning / AI",
		"Data Scientist":              "Data Science & Analytics",
		"Data Engineer":               "Data Science & Analytics",
		"DevOps Engineer":             "DevOps / SRE",
		"Site Reliability Engineer":   "DevOps / SRE",
		"Security Engineer":           "Security",
		"Frontend Developer":          "Frontend",
		"Backend Engineer":            "Backend",
		"Full Stack Developer":        "Full Stack",
		"iOS Developer":               "Mobile",
		"Android Engineer":            "Mobile",
		"SDET":                        "QA / Testing",
		"Embedded Systems Engineer":   "Hardware / Embedded",
		"Product Manager":             "Product & Design",
		// generic bucket
		"Software Engineer":  CategorySoftware,
		"Programmer Analyst": CategorySoftware,
		// no signal at all
		"Accountant":       CategoryOther,
		"Registered Nurse": CategoryOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, InferCategory(in), "role %q", in)
	}
}

func TestInferCategory_ShortTokensNeedWordBoundaries(t *testing.T) {
	t.Parallel()

	// "maintain" contains "ai" but is not an AI role
	assert.Equal(t, CategorySoftware, InferCategory("Engineer, Maintainability"))
	// but a standalone token fires
	assert.Equal(t, "Machine Learning / AI", InferCategory("AI Engineer"))
}

func TestInferCountry(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Toronto, ON":        "Canada",
		"London":             "UK",
		"Remote - UK":        "UK",
		"Berlin, Germany":    "Germany",
		"Bengaluru":          "India",
		"Sydney":             "Australia",
		"NYC":                "USA",
		"Remote":             "USA",
		"":                   "USA",
		"San Francisco, CA":  "USA",
	}
	for in, want := range cases {
		assert.Equal(t, want, InferCountry(in), "location %q", in)
	}
}
