package gantt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleProject() *Project {
	p := NewProject("Alphabet")
	p.AddTask(Task{Name: "1.0", Start: day(2024, 1, 1), Stop: day(2024, 1, 31)})
	p.AddTask(Task{Name: "1.1 <beta>", Start: day(2024, 2, 1), Stop: day(2024, 2, 14)})
	return p
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in      string
		want    Scale
		wantErr bool
	}{
		{"daily", DailyScale, false},
		{"DY", DailyScale, false},
		{"weekly", WeeklyScale, false},
		{"wk", WeeklyScale, false},
		{"monthly", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseScale(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScale(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScale(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTaskDays(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want int
	}{
		{"single day", Task{Start: day(2024, 3, 1), Stop: day(2024, 3, 1)}, 1},
		{"inclusive", Task{Start: day(2024, 3, 1), Stop: day(2024, 3, 10)}, 10},
		{"leap february", Task{Start: day(2024, 2, 1), Stop: day(2024, 3, 1)}, 30},
		{"reversed", Task{Start: day(2024, 3, 10), Stop: day(2024, 3, 1)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Days(); got != tt.want {
				t.Errorf("Days() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpan(t *testing.T) {
	if _, _, ok := NewProject("empty").Span(); ok {
		t.Error("Span() ok = true for empty project")
	}

	start, end, ok := sampleProject().Span()
	if !ok {
		t.Fatal("Span() ok = false")
	}
	if !start.Equal(day(2024, 1, 1)) || !end.Equal(day(2024, 2, 14)) {
		t.Errorf("Span() = %v..%v", start, end)
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	p := sampleProject()
	tasks := p.Tasks()
	tasks[0].Name = "changed"
	if p.Tasks()[0].Name != "1.0" {
		t.Error("Tasks() exposes internal slice")
	}
}

func TestRenderSVGDrawsOneBarPerTask(t *testing.T) {
	for _, scale := range []Scale{DailyScale, WeeklyScale} {
		t.Run(scale.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := sampleProject().RenderSVG(&buf, scale, day(2024, 1, 15)); err != nil {
				t.Fatalf("RenderSVG() error = %v", err)
			}
			out := buf.String()
			if !strings.Contains(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
				t.Fatalf("output is not an svg document:\n%s", out)
			}
			if got := strings.Count(out, `class="task"`); got != 2 {
				t.Errorf("found %d task bars, want 2", got)
			}
			if got := strings.Count(out, `class="today"`); got != 1 {
				t.Errorf("found %d today lines, want 1", got)
			}
			if !strings.Contains(out, "1.1 &lt;beta&gt;") {
				t.Error("task name not escaped")
			}
			if !strings.Contains(out, "Jan 2024") || !strings.Contains(out, "Feb 2024") {
				t.Error("month headers missing")
			}
		})
	}
}

func TestRenderSVGWeeklyHeaderUsesISOWeeks(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleProject().RenderSVG(&buf, WeeklyScale, day(2024, 1, 15)); err != nil {
		t.Fatal(err)
	}
	// 2024-01-01 is a Monday in ISO week 1; 2024-02-14 is in week 7
	for _, label := range []string{"W01", "W07"} {
		if !strings.Contains(buf.String(), label) {
			t.Errorf("weekly header missing %s", label)
		}
	}
	if strings.Contains(buf.String(), "W08") {
		t.Error("weekly header runs past the last task week")
	}
}

func TestRenderSVGOmitsTodayOutsideRange(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleProject().RenderSVG(&buf, DailyScale, day(2030, 6, 1)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `class="today"`) {
		t.Error("today line drawn outside the chart range")
	}
}

func TestRenderSVGEmptyProject(t *testing.T) {
	var buf bytes.Buffer
	if err := NewProject("Nothing").RenderSVG(&buf, DailyScale, day(2024, 5, 5)); err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, `class="task"`) {
		t.Error("empty project rendered a task bar")
	}
	if !strings.Contains(out, `class="today"`) {
		t.Error("empty project should still mark today")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderSVGReportsWriteError(t *testing.T) {
	err := sampleProject().RenderSVG(failingWriter{}, DailyScale, day(2024, 1, 15))
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("RenderSVG() error = %v, want disk full", err)
	}
}

func TestMakeSVGOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ABC_dy.svg")
	if err := os.WriteFile(path, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := sampleProject().MakeSVG(path, DailyScale, day(2024, 1, 15)); err != nil {
		t.Fatalf("MakeSVG() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") || !strings.Contains(string(data), "<svg") {
		t.Errorf("file not replaced with chart:\n%s", data)
	}
}

func TestRenderSVGRefusesTooManyColumns(t *testing.T) {
	p := NewProject("Wide")
	p.AddTask(Task{Name: "forever", Start: day(1900, 1, 1), Stop: day(2999, 12, 31)})

	for _, scale := range []Scale{DailyScale, WeeklyScale} {
		var buf bytes.Buffer
		err := p.RenderSVG(&buf, scale, day(2024, 1, 15))
		if !errors.Is(err, ErrSpanTooLong) {
			t.Errorf("%s: RenderSVG() error = %v, want ErrSpanTooLong", scale, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: wrote %d bytes before refusing", scale, buf.Len())
		}
	}
}

func TestRenderSVGAcceptsSpanAtLimit(t *testing.T) {
	p := NewProject("Limit")
	start := day(2000, 1, 1)
	p.AddTask(Task{Name: "edge", Start: start, Stop: start.AddDate(0, 0, MaxColumns-1)})

	if err := p.RenderSVG(&bytes.Buffer{}, DailyScale, start); err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	p.AddTask(Task{Name: "one more", Start: start, Stop: start.AddDate(0, 0, MaxColumns)})
	if err := p.RenderSVG(&bytes.Buffer{}, DailyScale, start); !errors.Is(err, ErrSpanTooLong) {
		t.Fatalf("RenderSVG() error = %v, want ErrSpanTooLong", err)
	}
}

func TestMakeSVGKeepsExistingFileWhenSpanTooLong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "WIDE_dy.svg")
	if err := os.WriteFile(path, []byte("previous chart"), 0644); err != nil {
		t.Fatal(err)
	}
	p := NewProject("Wide")
	p.AddTask(Task{Name: "forever", Start: day(1900, 1, 1), Stop: day(2999, 12, 31)})

	if err := p.MakeSVG(path, DailyScale, day(2024, 1, 15)); !errors.Is(err, ErrSpanTooLong) {
		t.Fatalf("MakeSVG() error = %v, want ErrSpanTooLong", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "previous chart" {
		t.Errorf("existing file changed to %q", data)
	}
}
