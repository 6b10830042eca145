package scoring

import (
	"fmt"
	"strings"
)

// Overqualified is the sentinel score for candidates above the role level.
const Overqualified = "OVERQUALIFIED"

// Diagnostic reasoning strings for completions that cannot be parsed.
const (
	ReasonNoJSON       = "No JSON found"
	ReasonParseError   = "Error parsing AI response"
	ReasonAnalysisFail = "Error analyzing resume"
)

// Record is the validated evaluator verdict. Empty strings mean "no data".
type Record struct {
	Score                   string `json:"score" mapstructure:"score"`
	Reasoning               string `json:"reasoning" mapstructure:"reasoning"`
	TechnicalSkillsMatch    string `json:"technical_skills_match,omitempty" mapstructure:"technical_skills_match"`
	ExperienceRelevance     string `json:"experience_relevance,omitempty" mapstructure:"experience_relevance"`
	SoftSkillsCulturalFit   string `json:"soft_skills_cultural_fit,omitempty" mapstructure:"soft_skills_cultural_fit"`
	EducationCertifications string `json:"education_certifications,omitempty" mapstructure:"education_certifications"`
	CareerProgression       string `json:"career_progression,omitempty" mapstructure:"career_progression"`
}

// Schema selects which fields are read from the completion.
type Schema string

const (
	// SchemaSimple reads score and reasoning only.
	SchemaSimple Schema = "simple"
	// SchemaExtended also reads the five breakdown sub-scores.
	SchemaExtended Schema = "extended"
)

// ParseSchema accepts "simple" or "extended"; empty selects extended.
func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemaExtended:
		return SchemaExtended, nil
	case SchemaSimple:
		return SchemaSimple, nil
	default:
		return "", fmt.Errorf("unknown scoring schema %q (want simple or extended)", s)
	}
}

// BreakdownFields lists the sub-score keys of the extended schema in prompt
// order.
var BreakdownFields = []string{
	"technical_skills_match",
	"experience_relevance",
	"soft_skills_cultural_fit",
	"education_certifications",
	"career_progression",
}

func (r *Record) percentageFields() map[string]*string {
	return map[string]*string{
		"score":                    &r.Score,
		"technical_skills_match":   &r.TechnicalSkillsMatch,
		"experience_relevance":     &r.ExperienceRelevance,
		"soft_skills_cultural_fit": &r.SoftSkillsCulturalFit,
		"education_certifications": &r.EducationCertifications,
		"career_progression":       &r.CareerProgression,
	}
}

func (r *Record) clearBreakdown() {
	r.TechnicalSkillsMatch = ""
	r.ExperienceRelevance = ""
	r.SoftSkillsCulturalFit = ""
	r.EducationCertifications = ""
	r.CareerProgression = ""
}

// HasScore reports whether the record carries a usable score.
func (r Record) HasScore() bool {
	return r.Score != ""
}
