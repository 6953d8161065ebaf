package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
)

type seedTask struct {
	title    string
	category domain.Category
}

var baseSeed = []seedTask{
	{"Plan your day", domain.CategoryExecution},
	{"1 hour skill deep-dive", domain.CategoryLearning},
	{"10 min mindfulness", domain.CategoryHealth},
}

// roleExtras are inserted right after the first base task.
var roleExtras = map[domain.Role][]seedTask{
	domain.RoleFounder:  {{"Talk to one potential customer", domain.CategoryExecution}},
	domain.RoleBusiness: {{"Review one revenue number", domain.CategoryExecution}},
}

// SeedTasks returns the default task list for role, ordered.
func SeedTasks(role domain.Role) []domain.Task {
	plan := make([]seedTask, 0, len(baseSeed)+len(roleExtras[role]))
	plan = append(plan, baseSeed[0])
	plan = append(plan, roleExtras[role]...)
	plan = append(plan, baseSeed[1:]...)

	tasks := make([]domain.Task, len(plan))
	for i, s := range plan {
		tasks[i] = domain.Task{ID: uuid.NewString(), Title: s.title, Category: s.category}
	}
	return tasks
}

// TaskStreakTracker keeps the daily task list and the streak counter.
// Not safe for concurrent use.
type TaskStreakTracker struct {
	clock ports.Clock
	log   zerolog.Logger

	tasks     []domain.Task
	seededFor uint64
	streak    int
	day       time.Time // start of the open calendar day
}

// NewTaskStreakTracker opens the current calendar day with an empty list.
func NewTaskStreakTracker(clock ports.Clock, log zerolog.Logger) *TaskStreakTracker {
	return &TaskStreakTracker{
		clock: clock,
		log:   log,
		day:   startOfDay(clock.Now()),
	}
}

// Seed installs the default tasks for role once per lock event. Calling it
// again for the same lockEvent returns the existing list untouched.
func (t *TaskStreakTracker) Seed(role domain.Role, lockEvent uint64) []domain.Task {
	t.OnDayRollover()
	if lockEvent != 0 && lockEvent == t.seededFor {
		return t.Tasks()
	}
	t.tasks = SeedTasks(role)
	t.seededFor = lockEvent
	t.log.Debug().Str("role", string(role)).Int("tasks", len(t.tasks)).Msg("tasks seeded")
	return t.Tasks()
}

// Toggle flips the completion of the task with id. A calendar day that ended
// since the last call is closed first, so the completion lands on today.
func (t *TaskStreakTracker) Toggle(id string) ([]domain.Task, error) {
	t.OnDayRollover()
	for i := range t.tasks {
		if t.tasks[i].ID == id {
			t.tasks[i].Completed = !t.tasks[i].Completed
			return t.Tasks(), nil
		}
	}
	return nil, domain.ErrUnknownTask
}

// Find returns the task with id.
func (t *TaskStreakTracker) Find(id string) (domain.Task, bool) {
	t.OnDayRollover()
	for _, task := range t.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return domain.Task{}, false
}

// Tasks returns a copy of the current list.
func (t *TaskStreakTracker) Tasks() []domain.Task {
	out := make([]domain.Task, len(t.tasks))
	copy(out, t.tasks)
	return out
}

// Board returns the list as offered to the user. While the emotional lock is
// active every non-health task is marked discouraged; none is hidden or blocked.
func (t *TaskStreakTracker) Board(emotionalLock bool) []domain.TaskView {
	t.OnDayRollover()
	out := make([]domain.TaskView, len(t.tasks))
	for i, task := range t.tasks {
		out[i] = domain.TaskView{
			Task:        task,
			Discouraged: emotionalLock && task.Category != domain.CategoryHealth,
		}
	}
	return out
}

// CompletedCount returns how many tasks are done today.
func (t *TaskStreakTracker) CompletedCount() int {
	t.OnDayRollover()
	return t.completed()
}

// Streak returns the current streak.
func (t *TaskStreakTracker) Streak() int {
	t.OnDayRollover()
	return t.streak
}

// OnDayRollover closes the open calendar day if the clock has moved past it.
// Reads and toggles call it too, so an explicit call is never required. A day
// closed with at least one completed task extends the streak; a day
// with none, including days skipped without a rollover, resets it. Repeated
// calls within the same day are no-ops, so the streak grows at most once per day.
func (t *TaskStreakTracker) OnDayRollover() int {
	today := startOfDay(t.clock.Now())
	if !today.After(t.day) {
		return t.streak
	}

	prev := t.streak
	if t.completed() > 0 {
		t.streak++
	} else {
		t.streak = 0
	}
	if today.After(t.day.AddDate(0, 0, 1)) {
		t.streak = 0
	}

	for i := range t.tasks {
		t.tasks[i].Completed = false
	}
	t.day = today

	t.log.Info().Int("previous", prev).Int("streak", t.streak).Time("day", today).Msg("day rolled over")
	return t.streak
}

func (t *TaskStreakTracker) completed() int {
	n := 0
	for _, task := range t.tasks {
		if task.Completed {
			n++
		}
	}
	return n
}

func startOfDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
