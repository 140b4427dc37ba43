package status

import "idlerpg/internal/domain/idle"

type Request struct {
	LogLimit int
}

type PoolView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Current   float64 `json:"current"`
	Max       float64 `json:"max"`
	Unbounded bool    `json:"unbounded,omitempty"`
	Rate      float64 `json:"rate"`
}

type SkillView struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Level               int    `json:"level"`
	MaxLevel            int    `json:"max_level"`
	Experience          int64  `json:"experience"`
	NextLevelExperience int64  `json:"next_level_experience"`
}

type ActionView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Rest            bool   `json:"rest,omitempty"`
	ProgressPercent int    `json:"progress_percent"`
	DurationMS      int64  `json:"duration_ms"`
	Completions     int    `json:"completions"`
	Available       bool   `json:"available"`
	BlockedBy       string `json:"blocked_by,omitempty"`
}

type UpgradeView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Purchased int    `json:"purchased"`
	Limit     int    `json:"limit"`
	Available bool   `json:"available"`
	BlockedBy string `json:"blocked_by,omitempty"`
}

type Response struct {
	PlayerID       string             `json:"player_id"`
	Character      idle.Character     `json:"character"`
	Home           string             `json:"home"`
	CurrentAction  string             `json:"current_action"`
	PreviousAction string             `json:"previous_action,omitempty"`
	Resources      []PoolView         `json:"resources"`
	StatPools      []PoolView         `json:"stat_pools"`
	Skills         []SkillView        `json:"skills"`
	Actions        []ActionView       `json:"actions"`
	Upgrades       []UpgradeView      `json:"upgrades"`
	Homes          []string           `json:"homes"`
	Locations      []string           `json:"locations"`
	SpecialEffects map[string]float64 `json:"special_effects"`
	Log            []idle.LogEntry    `json:"log"`
}
