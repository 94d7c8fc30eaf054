package command

import "fmt"

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

type SortField string

const (
	SortByNone      SortField = ""
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "createdAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// GetFilteredTasks selects a subset and optionally sorts it. An empty Filter means all,
// an empty SortBy keeps repository order and an empty SortOrder means ascending.
type GetFilteredTasks struct {
	Filter    Filter
	SortBy    SortField
	SortOrder SortOrder
}

func (q GetFilteredTasks) Validate() error {
	switch q.Filter {
	case "", FilterAll, FilterActive, FilterCompleted:
	default:
		return fmt.Errorf("unknown filter %q", q.Filter)
	}

	switch q.SortBy {
	case SortByNone, SortByPriority, SortByCreatedAt:
	default:
		return fmt.Errorf("unknown sort field %q", q.SortBy)
	}

	switch q.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return fmt.Errorf("unknown sort order %q", q.SortOrder)
	}

	return nil
}

type GetTaskByID struct {
	ID string
}

// FindTasks is a search built from domain specifications. Zero values disable a criterion.
type FindTasks struct {
	TitleContains string
	Priority      string
	OverdueOnly   bool
	ActiveOnly    bool
}
