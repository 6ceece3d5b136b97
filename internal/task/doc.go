// Package task holds the in-memory task list and the operations that change it.
//
// A Store is an ordered sequence of tasks. It is a value: every operation
// returns a new Store and never modifies a snapshot that was handed out
// earlier, so presenters can compare snapshots and re-render on change.
//
// # Operations
//
//   - Add appends a task with the next id and completed=false.
//   - Toggle flips the completed flag of one task.
//   - Delete removes one task, closing the gap.
//   - Move removes the task at one index and reinserts it at another.
//   - Stats derives total, completed, and progress percent.
//
// Toggle and Delete with an unknown id are no-ops. Add with a blank title
// returns a *ValidationError, Move with an out-of-range index returns a
// *RangeError; in both cases the store is unchanged.
//
// # Commands
//
// Presenters do not call the operations directly. They build a Command
// (Add, Toggle, Delete, Move) and pass it to Reduce, which is the single
// update function for the store.
//
// # Ids
//
// Ids come from a counter that only increases. While nothing has been
// deleted the next id equals len+1; after a delete the counter keeps
// going, so an id is never handed out twice.
package task
