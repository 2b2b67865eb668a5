package prompts

import "strings"

const tailoringFile = "tailoring.json"

// Prompt keys in tailoring.json
const (
	KeyTailorResume           = "tailor-resume"
	KeyCheckAlignment         = "check-alignment"
	KeyIncorporateSuggestions = "incorporate-suggestions"
)

// Focus is the professional specialty the prompts are written for
type Focus struct {
	Name      string
	Expertise string
	Metrics   string
}

// DataEngineering is the default focus.
var DataEngineering = Focus{
	Name: "Data Engineering",
	Expertise: "You have deep expertise in data technologies (e.g., Spark, Kafka, Airflow, dbt, Snowflake, BigQuery, Redshift), " +
		"architectures (ETL/ELT, data lakes, data warehousing, streaming), and cloud platforms (AWS, GCP, Azure).",
	Metrics: "data volume processed (TBs, PBs), pipeline latency reduction (e.g., \"reduced data delivery time by 30%\"), " +
		"cost savings on cloud infrastructure, improvements in data quality or pipeline uptime.",
}

// FocusNamed returns a Focus for an arbitrary specialty. The data engineering
// name maps to the detailed default.
func FocusNamed(name string) Focus {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, DataEngineering.Name) {
		return DataEngineering
	}
	return Focus{
		Name:      name,
		Expertise: "You have deep expertise in the technologies, architectures, and platforms used in " + name + " roles.",
		Metrics:   "scale handled, latency or time saved, cost reductions, and reliability or quality improvements.",
	}
}

// Builder renders the tailoring prompts for one focus
type Builder struct {
	Focus Focus
}

// WithFocus returns a Builder for the named specialty
func WithFocus(name string) *Builder {
	return &Builder{Focus: FocusNamed(name)}
}

var defaultBuilder = &Builder{Focus: DataEngineering}

func (b *Builder) render(key string, data map[string]string) string {
	data["Focus"] = b.Focus.Name
	data["Expertise"] = b.Focus.Expertise
	data["Metrics"] = b.Focus.Metrics
	return Format(mustTemplate(key), data)
}

// TailorPrompt asks for the full resume with the work experience rewritten for the job
func (b *Builder) TailorPrompt(resume, jobDescription string) string {
	return b.render(KeyTailorResume, map[string]string{
		"Resume":         resume,
		"JobDescription": jobDescription,
	})
}

// AlignmentPrompt asks for an ATS keyword alignment report
func (b *Builder) AlignmentPrompt(resume, jobDescription string) string {
	return b.render(KeyCheckAlignment, map[string]string{
		"Resume":         resume,
		"JobDescription": jobDescription,
	})
}

// IncorporationPrompt asks for a revision that weaves in the missing keywords and suggestions
func (b *Builder) IncorporationPrompt(resume, jobDescription string, missingKeywords []string, suggestions string) string {
	return b.render(KeyIncorporateSuggestions, map[string]string{
		"Resume":          resume,
		"JobDescription":  jobDescription,
		"MissingKeywords": strings.Join(missingKeywords, ", "),
		"Suggestions":     suggestions,
	})
}

// BuildTailorPrompt renders the tailoring prompt with the default focus
func BuildTailorPrompt(resume, jobDescription string) string {
	return defaultBuilder.TailorPrompt(resume, jobDescription)
}

// BuildAlignmentPrompt renders the alignment prompt with the default focus
func BuildAlignmentPrompt(resume, jobDescription string) string {
	return defaultBuilder.AlignmentPrompt(resume, jobDescription)
}

// BuildIncorporationPrompt renders the incorporation prompt with the default focus
func BuildIncorporationPrompt(resume, jobDescription string, missingKeywords []string, suggestions string) string {
	return defaultBuilder.IncorporationPrompt(resume, jobDescription, missingKeywords, suggestions)
}
