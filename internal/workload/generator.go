package workload

import (
	"math"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// redraws before an out of range sample is clamped
const maxRedraw = 64

// Generator draws synthetic task lengths in [Min, Max].
type Generator struct {
	distr config.Distr
	min   int64
	max   int64
	mean  float64
	std   float64
	skew  float64
}

func NewGenerator(s config.Synthetic) (*Generator, error) {
	d, err := config.ParseDistr(s.Distribution)
	if err != nil {
		return nil, err
	}
	return &Generator{
		distr: d,
		min:   s.Min,
		max:   s.Max,
		mean:  s.Mean,
		std:   s.Std,
		skew:  s.Skew,
	}, nil
}

// Draw returns one length. The uniform case consumes exactly one integer draw
// from rng so that dataset padding stays aligned with the reference runs.
func (g *Generator) Draw(rng *rand.Rand) int64 {
	if g.distr == config.Uniform {
		return g.min + rng.Int63n(g.max-g.min+1)
	}

	var v float64
	for i := 0; i < maxRedraw; i++ {
		v = g.sample(rng)
		if v >= float64(g.min) && v <= float64(g.max) {
			return int64(v)
		}
		WlLogger.WithFields(log.Fields{"v": v}).Trace("generated value out of bounds")
	}
	return int64(math.Max(float64(g.min), math.Min(v, float64(g.max))))
}

func (g *Generator) sample(rng *rand.Rand) float64 {
	switch g.distr {
	case config.Normal:
		return distuv.Normal{Mu: g.mean, Sigma: g.std, Src: rng}.Rand()
	case config.Poisson:
		return distuv.Poisson{Lambda: g.mean, Src: rng}.Rand()
	case config.SkewNormal:
		return skewNorm(g.skew, rng)*g.std + g.mean
	default:
		panic("unknown distribution")
	}
}

// Fill appends Draw results until ls has n values.
func (g *Generator) Fill(ls []int64, n int, rng *rand.Rand) []int64 {
	for len(ls) < n {
		ls = append(ls, g.Draw(rng))
	}
	return ls
}

func skewNorm(a float64, rng *rand.Rand) float64 {
	x1 := rng.NormFloat64()
	x2 := rng.NormFloat64()

	return (a*math.Abs(x1) + x2) / math.Sqrt(1+a*a)
}
