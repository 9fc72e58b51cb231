package policy

import "github.com/Vincent-lau/schedbench/internal/model"

func init() {
	register("random", func(Options) Policy { return new(random) })
}

type random struct{}

func (random) Name() string {
	return "random"
}

// Assign draws one uniform resource index per task.
func (random) Assign(st *State, tasks []model.Task, resources []model.Resource) (model.Assignment, error) {
	if err := checkInput(tasks, resources); err != nil {
		return nil, err
	}

	a := make(model.Assignment, len(tasks))
	for _, t := range tasks {
		a[t.ID] = resources[st.Rand.Intn(len(resources))].ID
	}
	return a, nil
}
