// Package distribute делит пары (источник, назначение) на шарды воркеров.
//
// Диапазон индексов [0, n) режется на непрерывные куски, размеры которых
// отличаются не больше чем на единицу. Каждый кусок перемешивается
// генератором с одним и тем же сидом. Пустые куски отбрасываются.
package distribute

import (
	"errors"
	"fmt"

	"github.com/ilkoid/poncho-dataset/pkg/random"
)

var (
	// ErrLengthMismatch — списки источников и назначений разной длины.
	ErrLengthMismatch = errors.New("sources and destinations differ in length")

	// ErrInvalidWorkers — число воркеров меньше единицы.
	ErrInvalidWorkers = errors.New("workers must be at least 1")
)

// Plan — по списку источников и назначений на шард.
// Sources[i][j] обрабатывается в Destinations[i][j].
type Plan struct {
	Sources      [][]string
	Destinations [][]string
}

// Len возвращает число шардов.
func (p Plan) Len() int {
	return len(p.Sources)
}

// Sizes возвращает размеры шардов.
func (p Plan) Sizes() []int {
	sizes := make([]int, len(p.Sources))
	for i, s := range p.Sources {
		sizes[i] = len(s)
	}
	return sizes
}

// Total возвращает число пар во всех шардах.
func (p Plan) Total() int {
	n := 0
	for _, s := range p.Sources {
		n += len(s)
	}
	return n
}

// Ranges делит [0, n) на parts непрерывных диапазонов. Первые n%parts
// получают лишний элемент. При parts > n часть диапазонов пустая.
func Ranges(n, parts int) [][2]int {
	if parts < 1 {
		return nil
	}
	base, extra := n/parts, n%parts

	ranges := make([][2]int, parts)
	start := 0
	for i := range parts {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = [2]int{start, start + size}
		start += size
	}
	return ranges
}

// Distribute строит Plan на workers шардов.
func Distribute(sources, destinations []string, workers int, seed int64) (Plan, error) {
	if len(sources) != len(destinations) {
		return Plan{}, fmt.Errorf("%w: %d sources, %d destinations",
			ErrLengthMismatch, len(sources), len(destinations))
	}
	if workers < 1 {
		return Plan{}, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	}

	var plan Plan
	for _, r := range Ranges(len(sources), workers) {
		if r[1] == r[0] {
			continue
		}

		ids := make([]int, 0, r[1]-r[0])
		for i := r[0]; i < r[1]; i++ {
			ids = append(ids, i)
		}
		random.Shuffle(seed, ids)

		srcs := make([]string, len(ids))
		dsts := make([]string, len(ids))
		for j, id := range ids {
			srcs[j] = sources[id]
			dsts[j] = destinations[id]
		}
		plan.Sources = append(plan.Sources, srcs)
		plan.Destinations = append(plan.Destinations, dsts)
	}

	return plan, nil
}
