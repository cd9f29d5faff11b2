package utils

import (
	"hash/fnv"
	"math/rand"
)

// StringToSeed превращает строковый сид комнаты в int64 для math/rand.
// Одинаковая строка всегда дает одинаковое число.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

// NewRand создает детерминированный генератор из строкового сида.
func NewRand(seed string) *rand.Rand {
	return rand.New(rand.NewSource(StringToSeed(seed)))
}

// IntBetween возвращает случайное число в диапазоне [min, max] включительно.
func IntBetween(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return rng.Intn(max-min+1) + min
}

// Chance возвращает true с вероятностью p (0..1).
func Chance(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return rng.Float64() < p
}

// Pick возвращает случайный элемент слайса. Для пустого слайса - нулевое значение.
func Pick[T any](rng *rand.Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[rng.Intn(len(items))]
}
