package domain

import "time"

type TaskStats struct {
	Total        int
	Active       int
	Completed    int
	Overdue      int
	HighPriority int
}

// ComputeStats counts tasks by state. Overdue is evaluated at now.
func ComputeStats(tasks []Task, now time.Time) TaskStats {
	stats := TaskStats{Total: len(tasks)}

	for _, task := range tasks {
		if task.Completed() {
			stats.Completed++
		} else {
			stats.Active++
		}

		if task.IsOverdue(now) {
			stats.Overdue++
		}

		if task.Priority() == PriorityHigh {
			stats.HighPriority++
		}
	}

	return stats
}
