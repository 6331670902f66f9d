package metrics

import (
	"fmt"
	"time"

	"jira-gantt/gantt"
)

// Metric structures
type TaskStatus struct {
	Name     string    `json:"name"`
	Start    time.Time `json:"start"`
	Stop     time.Time `json:"stop"`
	Days     int       `json:"days"`
	Status   string    `json:"status"` // planned, active, done
	DaysLeft int       `json:"days_left"`
}

type TimelineMetrics struct {
	Project        string       `json:"project"`
	TotalRecords   int          `json:"total_records"`
	ChartedTasks   int          `json:"charted_tasks"`
	SkippedRecords int          `json:"skipped_records"`
	EarliestStart  *time.Time   `json:"earliest_start,omitempty"`
	LatestEnd      *time.Time   `json:"latest_end,omitempty"`
	SpanDays       int          `json:"span_days"`
	ActiveTasks    int          `json:"active_tasks"`
	PlannedTasks   int          `json:"planned_tasks"`
	FinishedTasks  int          `json:"finished_tasks"`
	AvgTaskDays    float64      `json:"avg_task_days"`
	DateRange      string       `json:"date_range"`
	Tasks          []TaskStatus `json:"tasks"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// CalculateTimelineMetrics summarises a built chart as of today
func CalculateTimelineMetrics(project *gantt.Project, skipped int, today time.Time) TimelineMetrics {
	today = gantt.Date(today)
	tasks := project.Tasks()

	metrics := TimelineMetrics{
		Project:        project.Name,
		TotalRecords:   len(tasks) + skipped,
		ChartedTasks:   len(tasks),
		SkippedRecords: skipped,
		Tasks:          make([]TaskStatus, 0, len(tasks)),
		GeneratedAt:    time.Now(),
	}

	if len(tasks) == 0 {
		metrics.DateRange = "No dated records"
		return metrics
	}

	start, end, _ := project.Span()
	metrics.EarliestStart = &start
	metrics.LatestEnd = &end
	metrics.SpanDays = int(end.Sub(start).Hours()/24) + 1
	metrics.DateRange = fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	totalDays := 0
	for _, t := range tasks {
		status := TaskStatus{
			Name:  t.Name,
			Start: t.Start,
			Stop:  t.Stop,
			Days:  t.Days(),
		}
		switch {
		case today.Before(t.Start):
			status.Status = "planned"
			metrics.PlannedTasks++
		case today.After(t.Stop):
			status.Status = "done"
			metrics.FinishedTasks++
		default:
			status.Status = "active"
			status.DaysLeft = int(t.Stop.Sub(today).Hours() / 24)
			metrics.ActiveTasks++
		}
		totalDays += status.Days
		metrics.Tasks = append(metrics.Tasks, status)
	}
	metrics.AvgTaskDays = float64(totalDays) / float64(len(tasks))

	return metrics
}
