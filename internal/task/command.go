package task

import "fmt"

// Command is a request to change a Store. The set of commands is closed:
// Add, Toggle, Delete and Move.
type Command interface {
	// Name returns a short label for logs.
	Name() string

	apply(Store) (Store, error)
}

// Add appends a task.
type Add struct {
	Input Input
}

// Toggle flips the completed flag of a task.
type Toggle struct {
	ID int
}

// Delete removes a task.
type Delete struct {
	ID int
}

// Move reorders a task from one index to another.
type Move struct {
	From int
	To   int
}

func (Add) Name() string    { return "add" }
func (Toggle) Name() string { return "toggle" }
func (Delete) Name() string { return "delete" }
func (Move) Name() string   { return "move" }

func (c Add) apply(s Store) (Store, error) {
	next, _, err := s.Add(c.Input)
	return next, err
}

func (c Toggle) apply(s Store) (Store, error) {
	return s.Toggle(c.ID), nil
}

func (c Delete) apply(s Store) (Store, error) {
	return s.Delete(c.ID), nil
}

func (c Move) apply(s Store) (Store, error) {
	return s.Move(c.From, c.To)
}

// Reduce applies cmd to s and returns the resulting store. On error the
// returned store is s.
func Reduce(s Store, cmd Command) (Store, error) {
	if cmd == nil {
		return s, fmt.Errorf("nil command")
	}
	next, err := cmd.apply(s)
	if err != nil {
		return s, fmt.Errorf("%s: %w", cmd.Name(), err)
	}
	return next, nil
}

// Fields returns key/value pairs describing cmd, for structured logging.
func Fields(cmd Command) []any {
	switch c := cmd.(type) {
	case Add:
		return []any{"title", c.Input.Title, "priority", c.Input.Priority, "category", c.Input.Category}
	case Toggle:
		return []any{"id", c.ID}
	case Delete:
		return []any{"id", c.ID}
	case Move:
		return []any{"from", c.From, "to", c.To}
	default:
		return nil
	}
}
