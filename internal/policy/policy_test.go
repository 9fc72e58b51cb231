package policy

import (
	"testing"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/Vincent-lau/schedbench/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/exp/rand"
)

func makeResources(k int) []model.Resource {
	rs := make([]model.Resource, k)
	for i := range rs {
		rs[i] = model.Resource{
			ID:                i,
			HostID:            i / 3,
			ComputeCapacity:   1000,
			PEs:               1,
			BandwidthCapacity: 1000,
		}
	}
	return rs
}

func makeTasks(n int) []model.Task {
	ls := make([]int64, n)
	for i := range ls {
		ls[i] = int64(5000 + 100*i)
	}
	return model.NewTasks(ls, 300, 300)
}

type PolicyTestSuite struct {
	suite.Suite

	opts Options
}

func (s *PolicyTestSuite) SetupTest() {
	s.opts = Options{MOWS: config.Default().MOWS}
}

func TestPolicy(t *testing.T) {
	suite.Run(t, new(PolicyTestSuite))
}

func (s *PolicyTestSuite) TestRegistry() {
	s.Equal([]string{"mows", "random", "round-robin"}, List())

	for _, name := range List() {
		p, err := New(name, s.opts)
		s.NoError(err)
		s.Equal(name, p.Name())
	}

	_, err := New("fifo", s.opts)
	s.True(errors.Is(err, ErrUnknownPolicy))
}

func (s *PolicyTestSuite) TestAssignmentIsTotal() {
	for _, name := range List() {
		for _, k := range []int{1, 3, 54} {
			for _, n := range []int{1, 7, 500} {
				p, err := New(name, s.opts)
				s.Require().NoError(err)

				tasks := makeTasks(n)
				rs := makeResources(k)
				a, err := p.Assign(NewState(rand.New(rand.NewSource(1))), tasks, rs)
				s.Require().NoError(err)
				s.NoError(a.Validate(tasks, rs), "%s k=%d n=%d", name, k, n)
			}
		}
	}
}

func (s *PolicyTestSuite) TestRejectsEmptyInput() {
	for _, name := range List() {
		p, _ := New(name, s.opts)
		st := NewState(rand.New(rand.NewSource(1)))

		_, err := p.Assign(st, makeTasks(3), nil)
		s.True(errors.Is(err, model.ErrEmptyPool), name)

		_, err = p.Assign(st, nil, makeResources(3))
		s.True(errors.Is(err, model.ErrEmptyWorkload), name)
	}
}

func (s *PolicyTestSuite) TestRandomIsSeeded() {
	p, _ := New("random", s.opts)
	tasks := makeTasks(100)
	rs := makeResources(10)

	a1, err := p.Assign(NewState(rand.New(rand.NewSource(7))), tasks, rs)
	s.Require().NoError(err)
	a2, err := p.Assign(NewState(rand.New(rand.NewSource(7))), tasks, rs)
	s.Require().NoError(err)
	s.Equal(a1, a2)
}

func TestRoundRobinFromCursor(t *testing.T) {
	p, err := New("round-robin", Options{})
	require.NoError(t, err)

	for _, start := range []int{0, 1, 4} {
		k := 5
		st := &State{Cursor: NewCursor(start)}
		tasks := makeTasks(13)

		a, err := p.Assign(st, tasks, makeResources(k))
		require.NoError(t, err)
		for i := range tasks {
			assert.Equal(t, (start+i)%k, a[i], "start %d task %d", start, i)
		}
		assert.Equal(t, (start+13)%k, st.Cursor.Pos())
	}
}

func TestRoundRobinCursorCarriesOver(t *testing.T) {
	p, _ := New("round-robin", Options{})
	st := &State{Cursor: NewCursor(0)}
	rs := makeResources(3)

	_, err := p.Assign(st, makeTasks(4), rs)
	require.NoError(t, err)

	a, err := p.Assign(st, makeTasks(2), rs)
	require.NoError(t, err)
	assert.Equal(t, model.Assignment{0: 1, 1: 2}, a)

	st.Cursor.Reset()
	a, err = p.Assign(st, makeTasks(1), rs)
	require.NoError(t, err)
	assert.Equal(t, model.Assignment{0: 0}, a)
}

func TestRoundRobinSixTasksThreeResources(t *testing.T) {
	p, _ := New("round-robin", Options{})
	a, err := p.Assign(&State{Cursor: NewCursor(0)}, makeTasks(6), makeResources(3))
	require.NoError(t, err)

	got := make([]int, 6)
	for tid, rid := range a {
		got[tid] = rid
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, got)
}

func TestMOWSTieBreakFirstInPool(t *testing.T) {
	cfg := config.Default().MOWS
	cfg.WPerformance = 1
	cfg.WSecurity = 0

	p, _ := New("mows", Options{MOWS: cfg})
	a, err := p.Assign(NewState(rand.New(rand.NewSource(12345))), makeTasks(20), makeResources(6))
	require.NoError(t, err)

	for tid, rid := range a {
		assert.Equal(t, 0, rid, "task %d", tid)
	}
}

func TestMOWSPrefersCapacity(t *testing.T) {
	cfg := config.Default().MOWS
	cfg.WPerformance = 1
	cfg.WSecurity = 0

	rs := makeResources(4)
	rs[2].ComputeCapacity = 6000
	rs[3].ComputeCapacity = 6000

	tasks := model.NewTasks([]int64{20000, 40000}, 300, 300)
	p, _ := New("mows", Options{MOWS: cfg})
	a, err := p.Assign(NewState(rand.New(rand.NewSource(1))), tasks, rs)
	require.NoError(t, err)
	assert.Equal(t, model.Assignment{0: 2, 1: 2}, a)
}

func TestMOWSDrawsPerTaskAndResource(t *testing.T) {
	p, _ := New("mows", Options{MOWS: config.Default().MOWS})
	rng := rand.New(rand.NewSource(99))
	_, err := p.Assign(NewState(rng), makeTasks(5), makeResources(4))
	require.NoError(t, err)

	// 5 tasks x (1 demand + 4 capabilities)
	ref := rand.New(rand.NewSource(99))
	for i := 0; i < 25; i++ {
		ref.Float64()
	}
	assert.Equal(t, ref.Uint64(), rng.Uint64())
}
