package domain

import "errors"

// Category tags a task by the kind of effort it asks for.
type Category string

const (
	CategoryExecution Category = "execution"
	CategoryLearning  Category = "learning"
	CategoryHealth    Category = "health"
)

var ErrUnknownTask = errors.New("unknown task")

// Task is a single item on the daily list. Category never changes after creation.
type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	Category  Category `json:"category"`
}

// TaskView is a task as offered to the dashboard. Discouraged marks tasks the
// user is nudged away from while the emotional lock is active.
type TaskView struct {
	Task
	Discouraged bool `json:"discouraged"`
}
