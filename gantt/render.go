package gantt

import (
	"errors"
	"fmt"
	"io"
	"time"

	svg "github.com/ajstarks/svgo"
)

const (
	margin       = 10
	labelWidth   = 200
	titleY       = 20
	monthY       = 40
	unitY        = 56
	headerHeight = 66
	rowHeight    = 24
	barInset     = 4
)

// MaxColumns bounds the chart width; longer spans are refused
const MaxColumns = 10000

// ErrSpanTooLong is returned when the tasks span more than MaxColumns units
var ErrSpanTooLong = errors.New("gantt: date span too long to draw")

// columns is the drawn date range, aligned to whole scale units
type columns struct {
	first, last time.Time
	scale       Scale
	unitWidth   int
}

func newColumns(start, end time.Time, scale Scale) columns {
	first, last := Date(start), Date(end)
	width := 18
	if scale == WeeklyScale {
		width = 28
		// Weeks run Monday to Sunday
		first = first.AddDate(0, 0, -((int(first.Weekday()) + 6) % 7))
		last = last.AddDate(0, 0, (7-int(last.Weekday()))%7)
	}
	return columns{first: first, last: last, scale: scale, unitWidth: width}
}

func (c columns) count() int {
	return (daysBetween(c.first, c.last) + 1) / c.scale.unitDays()
}

func (c columns) date(i int) time.Time {
	return c.first.AddDate(0, 0, i*c.scale.unitDays())
}

func (c columns) contains(day time.Time) bool {
	day = Date(day)
	return !day.Before(c.first) && !day.After(c.last)
}

// x maps a day to the left edge of its slot
func (c columns) x(day time.Time) int {
	return labelWidth + margin + daysBetween(c.first, day)*c.unitWidth/c.scale.unitDays()
}

func (c columns) width(days int) int {
	return max(days*c.unitWidth/c.scale.unitDays(), 2)
}

func (p *Project) columns(scale Scale, today time.Time) (columns, error) {
	start, end, ok := p.Span()
	if !ok {
		start, end = today, today
	}
	cols := newColumns(start, end, scale)
	if n := cols.count(); n > MaxColumns {
		return columns{}, fmt.Errorf("%w: %d %s columns from %s to %s", ErrSpanTooLong,
			n, scale, cols.first.Format("2006-01-02"), cols.last.Format("2006-01-02"))
	}
	return cols, nil
}

// RenderSVG draws the chart at the given scale. A red line marks today when
// it falls inside the drawn range.
func (p *Project) RenderSVG(w io.Writer, scale Scale, today time.Time) error {
	cols, err := p.columns(scale, today)
	if err != nil {
		return err
	}
	n := cols.count()

	rows := max(len(p.tasks), 1)
	width := labelWidth + 2*margin + n*cols.unitWidth
	height := headerHeight + rows*rowHeight + margin
	bottom := headerHeight + rows*rowHeight

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(p.Name)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Text(margin, titleY, p.Name, "font-family:sans-serif;font-size:14px;font-weight:bold")

	canvas.Gstyle("font-family:sans-serif;font-size:10px;fill:#333333")
	for i := 0; i < n; i++ {
		day := cols.date(i)
		x := labelWidth + margin + i*cols.unitWidth

		if scale == DailyScale && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
			canvas.Rect(x, headerHeight, cols.unitWidth, bottom-headerHeight, "fill:#eeeeee")
		}
		if i == 0 || day.Month() != cols.date(i-1).Month() {
			canvas.Text(x+2, monthY, day.Format("Jan 2006"))
		}
		canvas.Text(x+2, unitY, unitLabel(day, scale), "font-size:9px")
		canvas.Line(x, headerHeight, x, bottom, "stroke:#dddddd;stroke-width:1")
	}
	canvas.Line(margin, headerHeight, width-margin, headerHeight, "stroke:#999999;stroke-width:1")
	canvas.Gend()

	for i, t := range p.tasks {
		y := headerHeight + i*rowHeight
		canvas.Text(margin, y+rowHeight-8, t.Name, "font-family:sans-serif;font-size:12px")
		canvas.Rect(cols.x(t.Start), y+barInset, cols.width(t.Days()), rowHeight-2*barInset,
			`class="task"`, "fill:#4a90d9;stroke:#2c5d8f;stroke-width:1")
	}

	if cols.contains(today) {
		x := cols.x(today) + cols.unitWidth/cols.scale.unitDays()/2
		canvas.Line(x, headerHeight, x, bottom, `class="today"`, "stroke:#e03030;stroke-width:2")
	}

	canvas.End()
	return ew.err
}

func unitLabel(day time.Time, scale Scale) string {
	if scale == WeeklyScale {
		_, week := day.ISOWeek()
		return fmt.Sprintf("W%02d", week)
	}
	return fmt.Sprint(day.Day())
}
