package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/progress"
)

func sample() curriculum.Curriculum {
	return curriculum.Curriculum{
		{ID: "s1", Title: "Basics", Chapters: []curriculum.Chapter{
			{ID: "v1", Title: "Welcome", Type: curriculum.TypeVideo, IsFree: true},
			{ID: "t1", Title: "Reading", Type: curriculum.TypeText},
			{ID: "q1", Title: "Check", Type: curriculum.TypeQuiz},
		}},
		{ID: "s2", Title: "Empty"},
		{ID: "s3", Title: "Advanced", Chapters: []curriculum.Chapter{
			{ID: "p1", Title: "Handout", Type: curriculum.TypePDF},
		}},
	}
}

func TestBuild(t *testing.T) {
	r := Build("c1", "Go 101", sample(), progress.NewSet("v1", "q1", "stale"))

	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 2, r.Completed)
	assert.InDelta(t, 50.0, r.Percent(), 0.001)

	require.Len(t, r.Sections, 3)
	assert.Equal(t, SectionSummary{Title: "Basics", Total: 3, Completed: 2}, r.Sections[0])
	assert.Equal(t, SectionSummary{Title: "Empty"}, r.Sections[1])
	assert.Equal(t, SectionSummary{Title: "Advanced", Total: 1}, r.Sections[2])

	require.Len(t, r.Rows, 4)
	assert.Equal(t, "1.1", r.Rows[0].Position.Label())
	assert.True(t, r.Rows[0].Free)
	assert.True(t, r.Rows[0].Completed)
	assert.False(t, r.Rows[1].Completed)
	assert.Equal(t, "3.1", r.Rows[3].Position.Label())
}

func TestBuild_NilSet(t *testing.T) {
	r := Build("c1", "", sample(), nil)
	assert.Equal(t, 0, r.Completed)
	assert.Equal(t, 0.0, r.Percent())
	assert.Equal(t, 0.0, Build("c1", "", nil, nil).Percent())
}

func TestWriteXLSX(t *testing.T) {
	r := Build("c1", "Go 101", sample(), progress.NewSet("v1"))

	var buf bytes.Buffer
	require.NoError(t, r.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetChapters, sheetSections}, f.GetSheetList())

	rows, err := f.GetRows(sheetChapters)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Chapter", "Section", "Title", "Type", "Free", "Completed"}, rows[0])
	assert.Equal(t, []string{"1.1", "Basics", "Welcome", "Video", "yes", "yes"}, rows[1])
	assert.Equal(t, []string{"3.1", "Advanced", "Handout", "PDF", "no", "no"}, rows[4])

	sections, err := f.GetRows(sheetSections)
	require.NoError(t, err)
	require.Len(t, sections, 5)
	assert.Equal(t, "Basics", sections[1][0])
	assert.Equal(t, "3", sections[1][1])
	assert.Equal(t, "1", sections[1][2])
	assert.Equal(t, "Total", sections[4][0])
	assert.Equal(t, "4", sections[4][1])
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.xlsx")
	r := Build("c1", "Go 101", sample(), progress.NewSet("v1", "t1", "q1", "p1"))
	require.NoError(t, r.SaveXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheetSections, "D5")
	require.NoError(t, err)
	assert.Equal(t, "100", v)
}
