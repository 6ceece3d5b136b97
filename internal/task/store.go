package task

import (
	"fmt"
	"strings"
)

// Store is an ordered task list. The zero value is an empty list whose
// first task gets id 1.
//
// Store methods never modify the receiver's backing array; a Store obtained
// earlier keeps describing the list as it was.
type Store struct {
	tasks  []Task
	nextID int
}

// New returns an empty store.
func New() Store {
	return Store{nextID: 1}
}

// FromTasks builds a store holding tasks in the given order. Ids must be
// positive and distinct; the next id continues after the largest one.
func FromTasks(tasks []Task) (Store, error) {
	seen := make(map[int]bool, len(tasks))
	maxID := 0
	for i, t := range tasks {
		if t.ID < 1 {
			return Store{}, fmt.Errorf("tasks[%d]: id must be positive, got %d", i, t.ID)
		}
		if seen[t.ID] {
			return Store{}, fmt.Errorf("tasks[%d]: duplicate id %d", i, t.ID)
		}
		seen[t.ID] = true
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	cloned := make([]Task, len(tasks))
	copy(cloned, tasks)
	return Store{tasks: cloned, nextID: maxID + 1}, nil
}

// Len returns the number of tasks.
func (s Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the tasks in display order.
func (s Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// At returns the task at index i. It panics if i is out of range.
func (s Store) At(i int) Task {
	return s.tasks[i]
}

// NextID returns the id the next added task will get.
func (s Store) NextID() int {
	if s.nextID < 1 {
		return 1
	}
	return s.nextID
}

// IndexOf returns the position of the task with the given id, or -1.
func (s Store) IndexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the task with the given id.
func (s Store) Get(id int) (Task, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Add appends a new task built from in. The title is trimmed and must not
// be empty; priority and category fall back to their defaults.
func (s Store) Add(in Input) (Store, Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return s, Task{}, &ValidationError{Field: "title", Err: ErrEmptyTitle}
	}

	priority := in.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	category := Category(strings.TrimSpace(string(in.Category)))
	if category == "" {
		category = DefaultCategory
	}

	t := Task{
		ID:       s.NextID(),
		Title:    title,
		Priority: priority,
		DueDate:  in.DueDate,
		Category: category,
	}

	tasks := make([]Task, len(s.tasks), len(s.tasks)+1)
	copy(tasks, s.tasks)
	tasks = append(tasks, t)

	return Store{tasks: tasks, nextID: t.ID + 1}, t, nil
}

// Toggle flips the completed flag of the task with the given id.
// Unknown ids leave the store unchanged.
func (s Store) Toggle(id int) Store {
	i := s.IndexOf(id)
	if i < 0 {
		return s
	}
	tasks := s.Tasks()
	tasks[i].Completed = !tasks[i].Completed
	return Store{tasks: tasks, nextID: s.nextID}
}

// Delete removes the task with the given id. Unknown ids leave the store
// unchanged.
func (s Store) Delete(id int) Store {
	i := s.IndexOf(id)
	if i < 0 {
		return s
	}
	tasks := make([]Task, 0, len(s.tasks)-1)
	tasks = append(tasks, s.tasks[:i]...)
	tasks = append(tasks, s.tasks[i+1:]...)
	return Store{tasks: tasks, nextID: s.nextID}
}

// Move removes the task at index from and reinserts it at index to,
// shifting the tasks in between by one.
func (s Store) Move(from, to int) (Store, error) {
	n := len(s.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return s, &RangeError{From: from, To: to, Len: n}
	}
	if from == to {
		return s, nil
	}

	tasks := s.Tasks()
	moved := tasks[from]
	if from < to {
		copy(tasks[from:to], tasks[from+1:to+1])
	} else {
		copy(tasks[to+1:from+1], tasks[to:from])
	}
	tasks[to] = moved

	return Store{tasks: tasks, nextID: s.nextID}, nil
}

// Statistics summarizes completion of the task list.
type Statistics struct {
	Total     int     `json:"totalTasks"`
	Completed int     `json:"completedTasks"`
	Progress  float64 `json:"progressPercent"`
}

// Stats computes statistics from the current tasks.
func (s Store) Stats() Statistics {
	st := Statistics{Total: len(s.tasks)}
	for i := range s.tasks {
		if s.tasks[i].Completed {
			st.Completed++
		}
	}
	if st.Total > 0 {
		st.Progress = float64(st.Completed) / float64(st.Total) * 100
	}
	return st
}
