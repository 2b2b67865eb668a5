package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageRegistry_Complete(t *testing.T) {
	all := []Stage{
		StageIdle, StageExtracting, StageAnalyzingResume, StageAnalyzingJob,
		StageTailoringExperience, StageCheckingATS, StageAssembling,
		StageImprovingResume, StageDone, StageError,
	}
	for _, stage := range all {
		assert.True(t, stage.Valid(), stage)
		assert.NotEmpty(t, stage.Message(), stage)
		assert.NotEqual(t, string(stage), stage.Message(), "display text differs from tag for %s", stage)
	}
	assert.False(t, Stage("bogus").Valid())
	assert.Equal(t, "bogus", Stage("bogus").Message())
}

func TestStage_FlowAndTerminal(t *testing.T) {
	assert.Equal(t, FlowPrimary, StageCheckingATS.Flow())
	assert.Equal(t, FlowImprove, StageImprovingResume.Flow())
	assert.Equal(t, FlowUpload, StageExtracting.Flow())
	assert.Equal(t, FlowNone, StageIdle.Flow())

	assert.True(t, StageDone.Terminal())
	assert.True(t, StageError.Terminal())
	assert.False(t, StageAssembling.Terminal())
}

func TestStage_Messages(t *testing.T) {
	assert.Equal(t, "DE Agent 4: Performing ATS keyword alignment check...", StageCheckingATS.Message())
	assert.Equal(t, "Your tailored resume and ATS analysis are ready!", StageDone.Message())
}

func TestPrimaryStages(t *testing.T) {
	stages := PrimaryStages()
	assert.Equal(t, StageAnalyzingResume, stages[0])
	assert.Equal(t, StageDone, stages[len(stages)-1])
	for _, s := range stages[:len(stages)-1] {
		assert.Equal(t, FlowPrimary, s.Flow())
	}
}
