package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_DecodeComplete(t *testing.T) {
	raw := `{
		"count": 1,
		"game_id": 12345,
		"game_name": "Test Game",
		"game_name_date": 1234567890,
		"game_alias": "test-game",
		"game_type": "game",
		"game_image": "test.jpg",
		"comp_lvl_combine": 1,
		"comp_lvl_sp": 1,
		"comp_main": 36000,
		"comp_plus": 54000,
		"comp_100": 72000,
		"comp_all": 54000,
		"comp_main_count": 100,
		"comp_plus_count": 50,
		"comp_100_count": 25,
		"comp_all_count": 200,
		"count_comp": 200,
		"count_speedrun": 10,
		"count_backlog": 500,
		"count_review": 150,
		"review_score": 85,
		"count_playing": 300,
		"count_retired": 50,
		"profile_dev": "Test Developer",
		"profile_popular": 1000,
		"profile_steam": 123456,
		"profile_platform": "PC",
		"release_world": 1609459200
	}`

	var g Game
	require.NoError(t, json.Unmarshal([]byte(raw), &g))

	assert.Equal(t, "Test Game", g.GameName)
	assert.Equal(t, int64(12345), g.GameID)
	assert.Equal(t, 36000, g.CompMain)
	assert.Equal(t, 85, g.ReviewScore)
	assert.Equal(t, int64(123456), g.ProfileSteam)
	assert.Equal(t, "PC", g.ProfilePlatform)
	assert.Equal(t, 10.0, g.MainStoryHours())
	assert.Equal(t, 2021, g.ReleaseYear())
}

func TestGame_DecodeDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "minimal",
			raw:  `{"count": 0, "game_id": 999, "game_name": "Sparse Game"}`,
		},
		{
			name: "nulls",
			raw:  `{"game_id": 999, "game_name": "Sparse Game", "game_alias": null, "comp_main": null, "profile_platform": null}`,
		},
		{
			name: "unknown fields",
			raw:  `{"game_id": 999, "game_name": "Sparse Game", "extra_field_1": "ignored", "extra_field_2": {"nested": [1, 2]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Game
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &g))

			assert.Equal(t, "Sparse Game", g.GameName)
			assert.Equal(t, int64(999), g.GameID)
			assert.Zero(t, g.CompMain)
			assert.Zero(t, g.CompPlus)
			assert.Zero(t, g.Comp100)
			assert.Zero(t, g.ReleaseWorld)
			assert.Empty(t, g.GameAlias)
			assert.Empty(t, g.ProfilePlatform)
		})
	}
}

func TestGame_Hours(t *testing.T) {
	g := Game{
		CompMain: 36000,
		CompPlus: 54000,
		Comp100:  108000,
		CompAll:  72000,
	}

	assert.Equal(t, 10.0, g.MainStoryHours())
	assert.Equal(t, 15.0, g.MainPlusHours())
	assert.Equal(t, 30.0, g.CompletionistHours())
	assert.Equal(t, 20.0, g.AllStylesHours())
	assert.Equal(t, 0.0, Game{}.MainStoryHours())
}

func TestGame_URLs(t *testing.T) {
	g := Game{GameID: 12345, GameImage: "test_image.jpg"}

	assert.Equal(t, "https://howlongtobeat.com/game/12345", g.GameURL())
	assert.Equal(t, "https://howlongtobeat.com/games/test_image.jpg", g.ImageURL())
}

func TestGame_Title(t *testing.T) {
	assert.Equal(t, "Name", Game{GameName: "Name", GameAlias: "alias"}.Title())
	assert.Equal(t, "alias", Game{GameAlias: "alias"}.Title())
}

func TestGame_ReleaseYear(t *testing.T) {
	assert.Equal(t, 0, Game{}.ReleaseYear())
	assert.Equal(t, 1998, Game{ReleaseWorld: 1998}.ReleaseYear())
	assert.Equal(t, 2021, Game{ReleaseWorld: 1609459200}.ReleaseYear())
}
