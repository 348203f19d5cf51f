package standings

import (
	"bytes"
	"fmt"
	"strings"

	"rallytimesbot/pkg/helper"
	"rallytimesbot/pkg/model"
	"rallytimesbot/pkg/records"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	tablePosition = "POS"
	tableCode     = "PIL"
	tableDriver   = "Piloto"
	tableCar      = "Coche"
	tableTime     = "Tiempo"
	tableGap      = "Dif"

	NoRecordsMessage = "No hay tiempos registrados"
)

// RenderStage renders the classification of one stage. records may be in any
// order; only the ones of stage are used.
func RenderStage(rs []model.StageRecord, stage string) string {
	stage = records.NormalizeStage(stage)
	stageRecords := records.ByStage(rs, stage)
	if len(stageRecords) == 0 {
		return fmt.Sprintf("%s en %s\n", NoRecordsMessage, stage)
	}

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(stage)
	t.AppendHeader(table.Row{tablePosition, tableCode, tableDriver, tableCar, tableTime, tableGap})

	best := stageRecords[0].ElapsedSeconds
	for i, r := range stageRecords {
		t.AppendRow(table.Row{
			i + 1,
			helper.GetDriverCodeName(r.Driver),
			r.Driver,
			r.Car,
			helper.SecondsToMinutes(r.ElapsedSeconds),
			helper.SecondsToDiff(r.ElapsedSeconds - best),
		})
	}
	t.Render()
	return b.String()
}

// RenderAll renders one table per stage, stages in ascending order.
func RenderAll(rs []model.StageRecord) string {
	if len(rs) == 0 {
		return NoRecordsMessage + "\n"
	}
	stages := []string{}
	for _, r := range records.Sorted(rs) {
		if len(stages) == 0 || stages[len(stages)-1] != r.Stage {
			stages = append(stages, r.Stage)
		}
	}

	tables := make([]string, 0, len(stages))
	for _, s := range stages {
		tables = append(tables, RenderStage(rs, s))
	}
	return strings.Join(tables, "\n")
}

// RenderCompact renders a narrow two column table that fits a phone screen.
func RenderCompact(rs []model.StageRecord, stage string) string {
	stageRecords := records.ByStage(rs, stage)
	if len(stageRecords) == 0 {
		return ""
	}

	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{tableCode, tableTime})
	for _, r := range stageRecords {
		t.AppendRow(table.Row{
			helper.GetDriverCodeName(r.Driver),
			helper.SecondsToMinutes(r.ElapsedSeconds),
		})
	}
	t.Render()
	return b.String()
}

// RenderStats renders the summary as a key/value table.
func RenderStats(stats model.Stats) string {
	var b bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&b)
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Registros", stats.TotalRecords},
		{"Mejor tiempo", helper.SecondsToMinutes(stats.BestTime)},
		{"Líder", stats.Leader},
		{"Media", helper.SecondsToMinutes(stats.AverageTime)},
		{"Tramos", strings.Join(stats.Stages, ", ")},
	})
	t.Render()
	return b.String()
}
