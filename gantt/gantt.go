// Package gantt draws Gantt charts of named date intervals as SVG.
package gantt

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Scale is the time resolution of one chart column
type Scale int

const (
	DailyScale Scale = iota
	WeeklyScale
)

func (s Scale) String() string {
	switch s {
	case DailyScale:
		return "daily"
	case WeeklyScale:
		return "weekly"
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// Suffix is the short tag used in chart file names.
func (s Scale) Suffix() string {
	if s == WeeklyScale {
		return "wk"
	}
	return "dy"
}

func (s Scale) unitDays() int {
	if s == WeeklyScale {
		return 7
	}
	return 1
}

// ParseScale accepts "daily"/"dy" and "weekly"/"wk"
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(s) {
	case "daily", "dy":
		return DailyScale, nil
	case "weekly", "wk":
		return WeeklyScale, nil
	}
	return 0, fmt.Errorf("unknown scale %q", s)
}

// Task is a named interval. Start and Stop are both inclusive calendar days.
type Task struct {
	Name  string
	Start time.Time
	Stop  time.Time
}

// Days is the inclusive length of the task, at least one day.
func (t Task) Days() int {
	d := daysBetween(t.Start, t.Stop) + 1
	if d < 1 {
		return 1
	}
	return d
}

// Project accumulates tasks in insertion order
type Project struct {
	Name  string
	tasks []Task
}

func NewProject(name string) *Project {
	return &Project{Name: name}
}

func (p *Project) AddTask(t Task) {
	p.tasks = append(p.tasks, t)
}

func (p *Project) Tasks() []Task {
	return append([]Task(nil), p.tasks...)
}

// Span returns the earliest start and latest stop over all tasks.
func (p *Project) Span() (start, end time.Time, ok bool) {
	for i, t := range p.tasks {
		stop := t.Stop
		if stop.Before(t.Start) {
			stop = t.Start
		}
		if i == 0 || t.Start.Before(start) {
			start = t.Start
		}
		if i == 0 || stop.After(end) {
			end = stop
		}
	}
	return start, end, len(p.tasks) > 0
}

// MakeSVG renders the chart into filename, replacing any existing file
func (p *Project) MakeSVG(filename string, scale Scale, today time.Time) error {
	// Refuse before truncating an existing chart
	if _, err := p.columns(scale, today); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := p.RenderSVG(f, scale, today); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Date truncates t to its calendar day in UTC
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// errWriter keeps the first write error; svgo does not report them
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
