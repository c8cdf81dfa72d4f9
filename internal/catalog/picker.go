package catalog

import (
	"math/rand"
	"time"

	"github.com/texuddy/texuddy/internal/model"
)

// Picker chooses the next exercise to practice.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededPicker returns a deterministic Picker.
func NewSeededPicker(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects an exercise at random, weighting categories the learner has
// practiced less. practiced maps category to completed session count.
func (p *Picker) Pick(candidates []model.Exercise, practiced map[string]int) (model.Exercise, bool) {
	if len(candidates) == 0 {
		return model.Exercise{}, false
	}
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, ex := range candidates {
		w := 1.0 / float64(1+practiced[ex.Category])
		weights[i] = w
		total += w
	}

	r := p.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return candidates[i], true
		}
	}
	return candidates[len(candidates)-1], true
}
