package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"jira-gantt/metrics"
)

// ExportToJSON saves metrics to a JSON file
func ExportToJSON(m metrics.TimelineMetrics, filename string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ExportTasksToCSV saves one row per charted task to a CSV file
func ExportTasksToCSV(m metrics.TimelineMetrics, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)

	writer.Write([]string{"Task", "Start", "Stop", "Days", "Status", "Days Left"})
	for _, t := range m.Tasks {
		writer.Write([]string{
			t.Name,
			t.Start.Format("2006-01-02"),
			t.Stop.Format("2006-01-02"),
			strconv.Itoa(t.Days),
			t.Status,
			strconv.Itoa(t.DaysLeft),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// PrintChartSummary displays a formatted summary
func PrintChartSummary(w io.Writer, m metrics.TimelineMetrics) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
	fmt.Fprintf(w, "TIMELINE: %s\n", m.Project)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "Records: %d (Charted: %d, Skipped without dates: %d)\n",
		m.TotalRecords, m.ChartedTasks, m.SkippedRecords)
	fmt.Fprintf(w, "Date Range: %s\n", m.DateRange)
	if m.ChartedTasks > 0 {
		fmt.Fprintf(w, "Span: %d days | Avg Task Length: %.1f days\n", m.SpanDays, m.AvgTaskDays)
		fmt.Fprintf(w, "Done: %d | Active: %d | Planned: %d\n",
			m.FinishedTasks, m.ActiveTasks, m.PlannedTasks)

		fmt.Fprintln(w, "\nTasks:")
		for _, t := range m.Tasks {
			fmt.Fprintf(w, "  - %s: %s to %s (%s)\n",
				t.Name, t.Start.Format("2006-01-02"), t.Stop.Format("2006-01-02"), t.Status)
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
}
