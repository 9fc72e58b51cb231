package policy

import "github.com/Vincent-lau/schedbench/internal/model"

func init() {
	register("round-robin", func(Options) Policy { return new(roundRobin) })
}

// Cursor is the round-robin position. It is owned by the caller and survives
// across Assign calls until Reset.
type Cursor struct {
	pos int
}

func NewCursor(pos int) *Cursor {
	return &Cursor{pos: pos}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Reset() {
	c.pos = 0
}

// next returns the current index modulo k and advances.
func (c *Cursor) next(k int) int {
	i := c.pos % k
	c.pos = (i + 1) % k
	return i
}

type roundRobin struct{}

func (roundRobin) Name() string {
	return "round-robin"
}

func (roundRobin) Assign(st *State, tasks []model.Task, resources []model.Resource) (model.Assignment, error) {
	if err := checkInput(tasks, resources); err != nil {
		return nil, err
	}
	if st.Cursor == nil {
		st.Cursor = &Cursor{}
	}

	a := make(model.Assignment, len(tasks))
	for _, t := range tasks {
		a[t.ID] = resources[st.Cursor.next(len(resources))].ID
	}
	return a, nil
}
