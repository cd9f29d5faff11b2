package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Kind + Progress + Index).
// Индекс выдается комнатой последовательно, поэтому ID детерминированы для одного сида.
type EntityID uint64

// NilEntityID - "нет сущности" (пустая ссылка на цель и т.п.)
const NilEntityID EntityID = 0

const (
	bitsIndex    = 40
	bitsProgress = 16
	bitsKind     = 8

	shiftProgress = bitsIndex
	shiftKind     = bitsIndex + bitsProgress

	maskIndex    = (1 << bitsIndex) - 1
	maskProgress = (1 << bitsProgress) - 1
	maskKind     = (1 << bitsKind) - 1
)

// PackEntityID создает ID из компонентов
func PackEntityID(kind EntityKind, progress int, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(progress) & maskProgress) << shiftProgress
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Progress() int {
	return int((id >> shiftProgress) & maskProgress)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON принимает и строку, и число
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	if len(data) == 0 || string(data) == "null" {
		*id = NilEntityID
		return nil
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entity id %q: %w", string(data), err)
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [kind:progress:idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d:%d]", id.Kind(), id.Progress(), id.Index())
}
