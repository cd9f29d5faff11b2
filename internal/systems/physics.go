package systems

import (
	"github.com/h918m/mazmorra/internal/domain"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя точками (Брезенхэм).
// Блокируют всё, что не пол. Стартовая и конечная клетки не проверяются.
func HasLineOfSight(g *domain.Grid, p1, p2 domain.Position) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"start_pos": p1,
		"end_pos":   p2,
	})

	if p1 == p2 {
		return true
	}

	x0, y0 := p1.X, p1.Y
	dx, sx := absStep(p2.X - p1.X)
	dy, sy := absStep(p2.Y - p1.Y)
	err := dx - dy

	for {
		isEndpoint := (x0 == p1.X && y0 == p1.Y) || (x0 == p2.X && y0 == p2.Y)
		if !isEndpoint && !g.IsFloor(x0, y0) {
			losLogger.WithField("blocking_point", domain.Position{X: x0, Y: y0}).
				Debug("Line of sight blocked")
			return false
		}

		if x0 == p2.X && y0 == p2.Y {
			return true
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absStep(d int) (int, int) {
	switch {
	case d < 0:
		return -d, -1
	case d > 0:
		return d, 1
	}
	return 0, 0
}
