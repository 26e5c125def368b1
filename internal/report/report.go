// Package report summarizes a learner's completion of a course and
// exports it as a spreadsheet.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/coursekit/internal/curriculum"
	"github.com/abhisek/coursekit/internal/navigation"
	"github.com/abhisek/coursekit/internal/progress"
)

// Row is one chapter of the course with its completion status.
type Row struct {
	Position     navigation.Position
	SectionTitle string
	ChapterID    curriculum.ID
	ChapterTitle string
	Type         curriculum.ChapterType
	Free         bool
	Completed    bool
}

// SectionSummary counts completed chapters in one section.
type SectionSummary struct {
	Title     string
	Total     int
	Completed int
}

// Report is the completion state of one course.
type Report struct {
	CourseID    string
	CourseTitle string
	Rows        []Row
	Sections    []SectionSummary
	Total       int
	Completed   int
}

// Build walks the curriculum in order. Completed ids that are not in the
// curriculum are ignored.
func Build(courseID, title string, c curriculum.Curriculum, done *progress.Set) Report {
	r := Report{CourseID: courseID, CourseTitle: title}
	for si, sec := range c {
		sum := SectionSummary{Title: sec.Title, Total: len(sec.Chapters)}
		for ci, ch := range sec.Chapters {
			completed := done.Has(ch.ID)
			if completed {
				sum.Completed++
			}
			r.Rows = append(r.Rows, Row{
				Position:     navigation.Position{Section: si, Chapter: ci},
				SectionTitle: sec.Title,
				ChapterID:    ch.ID,
				ChapterTitle: ch.Title,
				Type:         ch.Type,
				Free:         ch.IsFree,
				Completed:    completed,
			})
		}
		r.Sections = append(r.Sections, sum)
		r.Total += sum.Total
		r.Completed += sum.Completed
	}
	return r
}

// Percent is the share of chapters completed, 0 to 100.
func (r Report) Percent() float64 {
	return percent(r.Completed, r.Total)
}

func percent(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) * 100 / float64(total)
}

const (
	sheetChapters = "Chapters"
	sheetSections = "Sections"
)

// WriteXLSX writes the report as a workbook with a chapter sheet and a
// section summary sheet.
func (r Report) WriteXLSX(w io.Writer) error {
	f, err := r.workbook()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path.
func (r Report) SaveXLSX(path string) error {
	f, err := r.workbook()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (r Report) workbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetChapters); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetSections); err != nil {
		f.Close()
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create style: %w", err)
	}

	chapters := [][]any{{"Chapter", "Section", "Title", "Type", "Free", "Completed"}}
	for _, row := range r.Rows {
		chapters = append(chapters, []any{
			row.Position.Label(),
			row.SectionTitle,
			row.ChapterTitle,
			row.Type.Label(),
			yesNo(row.Free),
			yesNo(row.Completed),
		})
	}

	sections := [][]any{{"Section", "Chapters", "Completed", "Percent"}}
	for _, s := range r.Sections {
		sections = append(sections, []any{s.Title, s.Total, s.Completed, round1(percent(s.Completed, s.Total))})
	}
	sections = append(sections, []any{"Total", r.Total, r.Completed, round1(r.Percent())})

	for _, sheet := range []struct {
		name  string
		rows  [][]any
		width float64
	}{
		{sheetChapters, chapters, 36},
		{sheetSections, sections, 36},
	} {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetRowStyle(sheet.name, 1, 1, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("style header: %w", err)
		}
		if err := f.SetColWidth(sheet.name, "B", "C", sheet.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("set width: %w", err)
		}
	}

	if r.CourseTitle != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Title: r.CourseTitle, Subject: r.CourseID}); err != nil {
			f.Close()
			return nil, fmt.Errorf("set properties: %w", err)
		}
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
