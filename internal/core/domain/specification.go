package domain

import (
	"strings"
	"time"
)

// Specification is a predicate over tasks that query code composes freely.
// Repositories may translate known specifications into native queries, but
// evaluating IsSatisfiedBy in memory is always a correct fallback.
type Specification interface {
	IsSatisfiedBy(task Task) bool
}

// SpecFunc adapts a plain function to Specification.
type SpecFunc func(task Task) bool

func (f SpecFunc) IsSatisfiedBy(task Task) bool {
	return f(task)
}

type AndSpec struct {
	Specs []Specification
}

func And(specs ...Specification) AndSpec {
	return AndSpec{Specs: specs}
}

func (s AndSpec) IsSatisfiedBy(task Task) bool {
	for _, spec := range s.Specs {
		if !spec.IsSatisfiedBy(task) {
			return false
		}
	}

	return true
}

type OrSpec struct {
	Specs []Specification
}

func Or(specs ...Specification) OrSpec {
	return OrSpec{Specs: specs}
}

func (s OrSpec) IsSatisfiedBy(task Task) bool {
	for _, spec := range s.Specs {
		if spec.IsSatisfiedBy(task) {
			return true
		}
	}

	return false
}

type NotSpec struct {
	Spec Specification
}

func Not(spec Specification) NotSpec {
	return NotSpec{Spec: spec}
}

func (s NotSpec) IsSatisfiedBy(task Task) bool {
	return !s.Spec.IsSatisfiedBy(task)
}

// CompletedSpec matches completed tasks.
type CompletedSpec struct{}

func (CompletedSpec) IsSatisfiedBy(task Task) bool {
	return task.Completed()
}

// ActiveSpec matches tasks that are not completed.
type ActiveSpec struct{}

func (ActiveSpec) IsSatisfiedBy(task Task) bool {
	return !task.Completed()
}

type PrioritySpec struct {
	Priority Priority
}

func (s PrioritySpec) IsSatisfiedBy(task Task) bool {
	return task.Priority() == s.Priority
}

// OverdueSpec evaluates Task.IsOverdue at a fixed instant.
type OverdueSpec struct {
	Now time.Time
}

func (s OverdueSpec) IsSatisfiedBy(task Task) bool {
	return task.IsOverdue(s.Now)
}

// TitleContainsSpec is a case-insensitive substring match on the title.
type TitleContainsSpec struct {
	Text string
}

func (s TitleContainsSpec) IsSatisfiedBy(task Task) bool {
	return strings.Contains(strings.ToLower(task.Title().String()), strings.ToLower(s.Text))
}

// DueBeforeSpec matches tasks with a due date strictly before Instant.
type DueBeforeSpec struct {
	Instant time.Time
}

func (s DueBeforeSpec) IsSatisfiedBy(task Task) bool {
	due, ok := task.DueDate()
	return ok && due.Before(s.Instant)
}

// Filter returns the tasks satisfying spec, keeping their order. A nil spec matches everything.
func Filter(tasks []Task, spec Specification) []Task {
	result := make([]Task, 0, len(tasks))

	for _, task := range tasks {
		if spec == nil || spec.IsSatisfiedBy(task) {
			result = append(result, task)
		}
	}

	return result
}
