// Package chart turns Jira versions and epics into Gantt timelines.
package chart

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jira-gantt/gantt"
	"jira-gantt/jira"
)

// Scales are rendered in this order by GenerateChart
var Scales = []gantt.Scale{gantt.DailyScale, gantt.WeeklyScale}

// Interval is a record with both of its dates present
type Interval struct {
	Name  string
	Start string
	End   string
}

// Generator builds and renders the chart of one project
type Generator struct {
	Key       string
	Name      string
	Intervals []Interval
	Skipped   int // records without a start or end date
	OutputDir string
	Today     func() time.Time
}

func newGenerator(key, name string) *Generator {
	return &Generator{Key: key, Name: name, OutputDir: ".", Today: time.Now}
}

// take keeps the record only when both dates are present
func (g *Generator) take(name, start, end string) {
	if start == "" || end == "" {
		g.Skipped++
		return
	}
	g.Intervals = append(g.Intervals, Interval{Name: name, Start: start, End: end})
}

// NewVersionChart prepares a chart of the project's versions
func NewVersionChart(project jira.Project) *Generator {
	g := newGenerator(project.Key, project.Name)
	for _, v := range project.Versions {
		g.take(v.Name, v.StartDate, v.ReleaseDate)
	}
	return g
}

// NewEpicChart prepares a chart of epics belonging to project
func NewEpicChart(project jira.Project, epics []jira.Epic) *Generator {
	g := newGenerator(project.Key, project.Name)
	for _, e := range epics {
		g.take(e.Name, e.StartDate, e.ReleaseDate)
	}
	return g
}

// Build converts the intervals into a Gantt project
func (g *Generator) Build() (*gantt.Project, error) {
	p := gantt.NewProject(g.Name)
	for _, iv := range g.Intervals {
		start, err := ParseDate(iv.Start)
		if err != nil {
			return nil, fmt.Errorf("%s start date: %w", iv.Name, err)
		}
		stop, err := ParseDate(iv.End)
		if err != nil {
			return nil, fmt.Errorf("%s end date: %w", iv.Name, err)
		}
		p.AddTask(gantt.Task{Name: iv.Name, Start: start, Stop: stop})
	}
	return p, nil
}

// Filename is the chart file written for the given scale
func (g *Generator) Filename(scale gantt.Scale) string {
	return filepath.Join(g.OutputDir, fmt.Sprintf("%s_%s.svg", g.Key, scale.Suffix()))
}

// GenerateChart writes the daily and weekly charts and returns their paths.
// Nothing is written when a date fails to parse.
func (g *Generator) GenerateChart() ([]string, error) {
	p, err := g.Build()
	if err != nil {
		return nil, err
	}

	today := gantt.Date(g.Today())
	paths := make([]string, 0, len(Scales))
	for _, scale := range Scales {
		path := g.Filename(scale)
		if err := p.MakeSVG(path, scale, today); err != nil {
			return paths, fmt.Errorf("error writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Render writes a single scale of the chart to w
func (g *Generator) Render(w io.Writer, scale gantt.Scale) error {
	p, err := g.Build()
	if err != nil {
		return err
	}
	return p.RenderSVG(w, scale, gantt.Date(g.Today()))
}

// Years accepted by ParseDate
const (
	MinYear = 1900
	MaxYear = 2999
)

// ParseDate reads a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	var ymd [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		ymd[i] = n
	}

	d := time.Date(ymd[0], time.Month(ymd[1]), ymd[2], 0, 0, 0, 0, time.UTC)
	// time.Date normalises out-of-range values, which would hide bad input
	if d.Year() != ymd[0] || int(d.Month()) != ymd[1] || d.Day() != ymd[2] {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	if ymd[0] < MinYear || ymd[0] > MaxYear {
		return time.Time{}, fmt.Errorf("date %q outside years %d-%d", s, MinYear, MaxYear)
	}
	return d, nil
}
