package domain

import "github.com/sirupsen/logrus"

// BarEvent - пороговое событие полосы (hp/mp/xp)
type BarEvent uint8

const (
	BarNoEvent BarEvent = iota
	BarFilled           // current дошел до max снизу
	BarDepleted         // current дошел до нуля
)

// Bar - полоса ресурса: hp, mp, xp.
type Bar struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`

	// Overflow разрешает current > max (xp копится до обработки level-up)
	Overflow bool `json:"-"`
}

// NewBar создает полосу; current ограничивается [min, max]
func NewBar(current, max float64) Bar {
	b := Bar{Max: max}
	b.SetMax(max)
	b.Set(current)
	return b
}

// Set выставляет значение и возвращает пороговое событие, если оно произошло.
func (b *Bar) Set(v float64) BarEvent {
	prev := b.Current
	if v < b.Min {
		v = b.Min
	}
	if v > b.Max && !b.Overflow {
		v = b.Max
	}
	b.Current = v

	switch {
	case b.Max > 0 && prev < b.Max && v >= b.Max:
		return BarFilled
	case prev > 0 && v <= 0:
		return BarDepleted
	}
	return BarNoEvent
}

// Increment прибавляет delta (может быть отрицательным)
func (b *Bar) Increment(delta float64) BarEvent {
	return b.Set(b.Current + delta)
}

// SetMax меняет максимум без масштабирования current (только обрезка)
func (b *Bar) SetMax(max float64) {
	if !Invariant(max >= 0, "bar max must not be negative", logrus.Fields{"max": max}) {
		max = 0
	}
	b.Max = max
	if b.Current > b.Max && !b.Overflow {
		b.Current = b.Max
	}
}

// Rescale меняет максимум, сохраняя отношение current/max.
// Если старый максимум был нулевым, полоса становится полной.
func (b *Bar) Rescale(max float64) {
	ratio := 1.0
	if b.Max > 0 {
		ratio = b.Current / b.Max
	}
	b.SetMax(max)
	b.Current = b.Max * ratio
}

// Fill - полное восстановление
func (b *Bar) Fill() {
	b.Current = b.Max
}

// Ratio - current/max (0 для пустой полосы)
func (b *Bar) Ratio() float64 {
	if b.Max <= 0 {
		return 0
	}
	return b.Current / b.Max
}
