package models

import (
	"fmt"
	"time"
)

// SiteURL is the public address of the completion-time site.
const SiteURL = "https://howlongtobeat.com"

const secondsPerHour = 3600.0

// Game is a single search hit. Completion times are stored in seconds.
// Every field is optional in the upstream document and decodes to its zero
// value when absent or null.
type Game struct {
	Count        int    `json:"count"`
	GameID       int64  `json:"game_id"`
	GameName     string `json:"game_name"`
	GameNameDate int64  `json:"game_name_date"`
	GameAlias    string `json:"game_alias"`
	GameType     string `json:"game_type"`
	GameImage    string `json:"game_image"`

	CompLvlCombine int `json:"comp_lvl_combine"`
	CompLvlSP      int `json:"comp_lvl_sp"`
	CompLvlCO      int `json:"comp_lvl_co"`
	CompLvlMP      int `json:"comp_lvl_mp"`
	CompLvlSpd     int `json:"comp_lvl_spd"`

	CompMain      int `json:"comp_main"`
	CompPlus      int `json:"comp_plus"`
	Comp100       int `json:"comp_100"`
	CompAll       int `json:"comp_all"`
	CompMainCount int `json:"comp_main_count"`
	CompPlusCount int `json:"comp_plus_count"`
	Comp100Count  int `json:"comp_100_count"`
	CompAllCount  int `json:"comp_all_count"`

	InvestedCO      int `json:"invested_co"`
	InvestedMP      int `json:"invested_mp"`
	InvestedCOCount int `json:"invested_co_count"`
	InvestedMPCount int `json:"invested_mp_count"`

	CountComp     int `json:"count_comp"`
	CountSpeedrun int `json:"count_speedrun"`
	CountBacklog  int `json:"count_backlog"`
	CountReview   int `json:"count_review"`
	ReviewScore   int `json:"review_score"`
	CountPlaying  int `json:"count_playing"`
	CountRetired  int `json:"count_retired"`

	ProfileDev      string `json:"profile_dev"`
	ProfilePopular  int    `json:"profile_popular"`
	ProfileSteam    int64  `json:"profile_steam"`
	ProfilePlatform string `json:"profile_platform"`
	ReleaseWorld    int64  `json:"release_world"`
}

// MainStoryHours returns the main story completion time in hours
func (g Game) MainStoryHours() float64 {
	return float64(g.CompMain) / secondsPerHour
}

// MainPlusHours returns the main + extras completion time in hours
func (g Game) MainPlusHours() float64 {
	return float64(g.CompPlus) / secondsPerHour
}

// CompletionistHours returns the completionist time in hours
func (g Game) CompletionistHours() float64 {
	return float64(g.Comp100) / secondsPerHour
}

// AllStylesHours returns the all-styles completion time in hours
func (g Game) AllStylesHours() float64 {
	return float64(g.CompAll) / secondsPerHour
}

// GameURL returns the canonical detail page of the game
func (g Game) GameURL() string {
	return fmt.Sprintf("%s/game/%d", SiteURL, g.GameID)
}

// ImageURL returns the cover image address for the game's image slug
func (g Game) ImageURL() string {
	return fmt.Sprintf("%s/games/%s", SiteURL, g.GameImage)
}

// Title returns the display name, falling back to the alias.
func (g Game) Title() string {
	if g.GameName != "" {
		return g.GameName
	}
	return g.GameAlias
}

// ReleaseYear returns the worldwide release year, or 0 when unknown.
// release_world is either a bare year or a unix timestamp depending on the
// record's age.
func (g Game) ReleaseYear() int {
	switch {
	case g.ReleaseWorld <= 0:
		return 0
	case g.ReleaseWorld < 10000:
		return int(g.ReleaseWorld)
	default:
		return time.Unix(g.ReleaseWorld, 0).UTC().Year()
	}
}
