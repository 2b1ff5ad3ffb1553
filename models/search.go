package models

// SearchTypeGames is the only search type the client issues.
const SearchTypeGames = "games"

// SearchRequest is the POST body expected by the search endpoint. The
// defaults built by NewSearchRequest mirror what the site's own front-end
// sends; only SearchTerms varies per call.
type SearchRequest struct {
	SearchType    string        `json:"searchType"`
	SearchTerms   []string      `json:"searchTerms"`
	SearchPage    int           `json:"searchPage"`
	Size          int           `json:"size"`
	SearchOptions SearchOptions `json:"searchOptions"`
}

type SearchOptions struct {
	Games      GameSearchOptions `json:"games"`
	Users      UserSearchOptions `json:"users"`
	Filter     string            `json:"filter"`
	Sort       int               `json:"sort"`
	Randomizer int               `json:"randomizer"`
}

type GameSearchOptions struct {
	UserID        int       `json:"userId"`
	Platform      string    `json:"platform"`
	SortCategory  string    `json:"sortCategory"`
	RangeCategory string    `json:"rangeCategory"`
	RangeTime     RangeTime `json:"rangeTime"`
	Gameplay      Gameplay  `json:"gameplay"`
	Modifier      string    `json:"modifier"`
}

type UserSearchOptions struct {
	SortCategory string `json:"sortCategory"`
}

// RangeTime bounds are sent as null when unset.
type RangeTime struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

type Gameplay struct {
	Perspective string `json:"perspective"`
	Flow        string `json:"flow"`
	Genre       string `json:"genre"`
}

// NewSearchRequest builds a default first-page request for one search term
func NewSearchRequest(term string) SearchRequest {
	return SearchRequest{
		SearchType:  SearchTypeGames,
		SearchTerms: []string{term},
		SearchPage:  1,
		Size:        20,
		SearchOptions: SearchOptions{
			Games: GameSearchOptions{
				SortCategory:  "popular",
				RangeCategory: "main",
			},
			Users: UserSearchOptions{
				SortCategory: "postcount",
			},
		},
	}
}

// SearchResponse is the decoded body of a successful search call
type SearchResponse struct {
	Color       string `json:"color"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Count       int    `json:"count"`
	PageCurrent int    `json:"pageCurrent"`
	PageTotal   int    `json:"pageTotal"`
	PageSize    int    `json:"pageSize"`
	Data        []Game `json:"data"`
}
