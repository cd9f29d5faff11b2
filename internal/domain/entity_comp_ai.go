package domain

// SpawnerConfig - кого порождает юнит при смерти
type SpawnerConfig struct {
	Type   string `json:"type"`
	Lvl    int    `json:"lvl"`
	Count  int    `json:"count"`
	GiveXP bool   `json:"giveXP"`
}

// AIComponent - мозги врага: радиус обнаружения и частота решений
type AIComponent struct {
	Template       string         `json:"template"`
	Distance       float64        `json:"distance"`
	UpdateInterval int64          `json:"updateInterval"`
	LastDecision   int64          `json:"lastDecision"`
	Spawner        *SpawnerConfig `json:"spawner,omitempty"`
	IsBoss         bool           `json:"isBoss,omitempty"`
}

// IsReady проверяет, пора ли принимать новое решение
func (a *AIComponent) IsReady(now int64) bool {
	return now-a.LastDecision >= a.UpdateInterval
}

// Wait фиксирует момент последнего решения
func (a *AIComponent) Wait(now int64) {
	a.LastDecision = now
}
