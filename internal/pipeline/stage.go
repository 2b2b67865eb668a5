// Package pipeline drives a tailoring session through its stages: upload and
// extraction, the primary tailoring run and the improvement pass.
package pipeline

// Stage is the discrete state tag of a session
type Stage string

// Stages in the order a session moves through them
const (
	StageIdle                Stage = "idle"
	StageExtracting          Stage = "extracting"
	StageAnalyzingResume     Stage = "analyzing_resume"
	StageAnalyzingJob        Stage = "analyzing_job"
	StageTailoringExperience Stage = "tailoring_experience"
	StageCheckingATS         Stage = "checking_ats"
	StageAssembling          Stage = "assembling"
	StageImprovingResume     Stage = "improving_resume"
	StageDone                Stage = "done"
	StageError               Stage = "error"
)

// Flow groups the stages belonging to one kind of operation
type Flow string

// Flows
const (
	FlowNone    Flow = ""
	FlowUpload  Flow = "upload"
	FlowPrimary Flow = "primary"
	FlowImprove Flow = "improve"
)

// StageDefinition holds the metadata of a stage
type StageDefinition struct {
	Message  string
	Flow     Flow
	Terminal bool
}

// stageRegistry holds the display text and flow of each stage
var stageRegistry = map[Stage]StageDefinition{
	StageIdle: {
		Message: "Ready to engineer your Data Engineering resume.",
	},
	StageExtracting: {
		Message: "Parsing your resume file...",
		Flow:    FlowUpload,
	},
	StageAnalyzingResume: {
		Message: "DE Agent 1: Parsing your resume for pipelines, tools, and metrics...",
		Flow:    FlowPrimary,
	},
	StageAnalyzingJob: {
		Message: "DE Agent 2: Deconstructing job description for key data technologies...",
		Flow:    FlowPrimary,
	},
	StageTailoringExperience: {
		Message: "DE Agent 3: Re-architecting work experience to match data stacks...",
		Flow:    FlowPrimary,
	},
	StageCheckingATS: {
		Message: "DE Agent 4: Performing ATS keyword alignment check...",
		Flow:    FlowPrimary,
	},
	StageAssembling: {
		Message: "DE Agent 5: Assembling final resume and ATS report...",
		Flow:    FlowPrimary,
	},
	StageImprovingResume: {
		Message: "DE Agent 6: Weaving in ATS suggestions for maximum impact...",
		Flow:    FlowImprove,
	},
	StageDone: {
		Message:  "Your tailored resume and ATS analysis are ready!",
		Terminal: true,
	},
	StageError: {
		Message:  "An error occurred. Please try again.",
		Terminal: true,
	},
}

// Message returns the human-readable text shown for the stage
func (s Stage) Message() string {
	if def, ok := stageRegistry[s]; ok {
		return def.Message
	}
	return string(s)
}

// Flow returns the operation the stage belongs to
func (s Stage) Flow() Flow {
	return stageRegistry[s].Flow
}

// Terminal reports whether the stage ends a run
func (s Stage) Terminal() bool {
	return stageRegistry[s].Terminal
}

// Valid reports whether s is a known stage
func (s Stage) Valid() bool {
	_, ok := stageRegistry[s]
	return ok
}

// PrimaryStages lists the stages of a successful primary run in order
func PrimaryStages() []Stage {
	return []Stage{
		StageAnalyzingResume,
		StageAnalyzingJob,
		StageTailoringExperience,
		StageCheckingATS,
		StageAssembling,
		StageDone,
	}
}
