package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/caltrack/pkg/app"
	"tableflip.dev/caltrack/pkg/entry"
)

const (
	layoutTitle = "Monday, January 2, 2006"
	layoutTime  = "15:04"
	layoutDay   = "Mon Jan 2"
)

// DayPage is one page of a day's entries ready for printing.
type DayPage struct {
	Title      string
	Page       int
	PageCount  int
	DayEntries int
	Entries    []entry.Entry
	Calories   int
	Goal       int
}

type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Day prints one page of entries followed by the page total against the goal.
func (pp *PrettyPrint) Day(page DayPage) {
	pp.TitleWithCount(page.Title, page.DayEntries)

	if len(page.Entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	caloriesCol := 2
	if pp.ShowID {
		caloriesCol = 3
	}
	for i := range page.Entries {
		e := page.Entries[i]
		row := []interface{}{e.RecordedAt.Local().Format(layoutTime), e.Food, strconv.Itoa(e.Calories)}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(e.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(caloriesCol)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	faint := color.New(color.Faint)
	_, _ = faint.Fprintf(pp.out(), "page %d/%d  ", page.Page, maxInt(page.PageCount, 1))
	pp.caloriesLine(page.Calories, page.Goal)
	pp.NewLine()
}

// Report prints one row per day and the window total.
func (pp *PrettyPrint) Report(res app.ReportResult, label string) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = bold.Fprintf(pp.out(), "Report · last %s", label)
	_, _ = faint.Fprintf(pp.out(), " (%s → %s)\n", res.Since.Local().Format("2006-01-02"), res.Until.Local().Format("2006-01-02"))

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Day"), bold.Sprint("Entries"), bold.Sprint("Calories"), "")
	for _, d := range res.Days {
		tbl.AddRow(d.Day.Format(layoutDay), strconv.Itoa(len(d.Entries)), strconv.Itoa(d.Calories), pp.meter(d.Calories, res.Goal))
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	_, _ = bold.Fprintf(pp.out(), "Total %d kcal", res.Total)
	_, _ = faint.Fprintf(pp.out(), " · average %d/day\n\n", res.Average())
}

func (pp *PrettyPrint) caloriesLine(calories, goal int) {
	c := color.New(color.FgGreen)
	if goal > 0 && calories > goal {
		c = color.New(color.FgRed)
	}
	_, _ = c.Fprintf(pp.out(), "%d / %d kcal\n", calories, goal)
}

// meter draws a ten cell bar of calories against goal, clamped to full.
func (pp *PrettyPrint) meter(calories, goal int) string {
	if goal <= 0 {
		return ""
	}
	filled := calories * 10 / goal
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	if calories > goal {
		return color.New(color.FgRed).Sprint(bar)
	}
	return color.New(color.FgGreen).Sprint(bar)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
