package systems

import (
	"testing"

	"github.com/h918m/mazmorra/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHasLineOfSight(t *testing.T) {
	w := openWorld(12, 12)

	assert.True(t, HasLineOfSight(w.Grid, pos(2, 2), pos(2, 2)))
	assert.True(t, HasLineOfSight(w.Grid, pos(1, 1), pos(9, 6)))
	assert.True(t, HasLineOfSight(w.Grid, pos(5, 1), pos(5, 10)))

	w.Grid.Set(5, 5, domain.TileWall)
	assert.False(t, HasLineOfSight(w.Grid, pos(5, 1), pos(5, 10)), "стена на линии")
	assert.False(t, HasLineOfSight(w.Grid, pos(3, 3), pos(7, 7)), "стена на диагонали")
	assert.True(t, HasLineOfSight(w.Grid, pos(1, 5), pos(5, 5)), "конечная клетка не проверяется")
}
