package standings

import (
	"strings"
	"testing"

	"rallytimesbot/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []model.StageRecord {
	return []model.StageRecord{
		{Driver: "Carlos Sainz", Car: "Toyota Celica", ElapsedSeconds: 312.3, Stage: "SS2"},
		{Driver: "Colin McRae", Car: "Subaru Impreza", ElapsedSeconds: 309.8, Stage: "SS2"},
		{Driver: "Didier Auriol", Car: "Lancia Delta", ElapsedSeconds: 95.0, Stage: "SS1"},
	}
}

func TestRenderStage(t *testing.T) {
	out := RenderStage(sample(), "SS2")

	assert.Contains(t, out, "SS2")
	assert.Contains(t, out, "CMC")
	assert.Contains(t, out, "05:09.800")
	assert.Contains(t, out, "+2.500s")
	assert.NotContains(t, out, "Didier Auriol")

	mcrae := strings.Index(out, "Colin McRae")
	sainz := strings.Index(out, "Carlos Sainz")
	require.True(t, mcrae > 0 && sainz > 0)
	assert.Less(t, mcrae, sainz, "faster driver first")
}

func TestRenderStage_DefaultsAndEmpty(t *testing.T) {
	assert.Contains(t, RenderStage(sample(), ""), "Didier Auriol")
	assert.Equal(t, NoRecordsMessage+" en SS9\n", RenderStage(sample(), "SS9"))
}

func TestRenderAll(t *testing.T) {
	out := RenderAll(sample())
	ss1 := strings.Index(out, "SS1")
	ss2 := strings.Index(out, "SS2")
	require.True(t, ss1 >= 0 && ss2 >= 0)
	assert.Less(t, ss1, ss2)

	assert.Equal(t, NoRecordsMessage+"\n", RenderAll(nil))
}

func TestRenderCompact(t *testing.T) {
	out := RenderCompact(sample(), "SS2")
	assert.Contains(t, out, "CSA")
	assert.NotContains(t, out, "Toyota")
	assert.Empty(t, RenderCompact(sample(), "SS3"))
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(model.Stats{TotalRecords: 3, BestTime: 95, Leader: "Didier Auriol", Stages: []string{"SS2", "SS1"}, AverageTime: 239.033})
	assert.Contains(t, out, "Didier Auriol")
	assert.Contains(t, out, "01:35.000")
	assert.Contains(t, out, "SS2, SS1")
}
