// Package random — воспроизводимые перестановки по сиду.
//
// Каждый вызов создаёт новый генератор из сида: одинаковые сид и размер
// дают одинаковый порядок независимо от предыдущих перемешиваний.
package random

import "math/rand"

// DefaultSeed — сид по умолчанию.
const DefaultSeed int64 = 871

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Permutation возвращает перестановку [0, n).
func Permutation(seed int64, n int) []int {
	if n <= 0 {
		return []int{}
	}
	return newRand(seed).Perm(n)
}

// Shuffle перемешивает ids на месте.
func Shuffle[T any](seed int64, ids []T) {
	newRand(seed).Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// Shuffled возвращает перемешанную копию ids.
func Shuffled[T any](seed int64, ids []T) []T {
	out := make([]T, len(ids))
	copy(out, ids)
	Shuffle(seed, out)
	return out
}
