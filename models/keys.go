package models

// APIKeys is the endpoint credential recovered by discovery: the sub-page
// that serves searches and the access key appended to its path. It lives only
// in memory and is never persisted.
type APIKeys struct {
	SubPage   string `json:"sub_page"`
	SearchKey string `json:"search_key"`
}

// IsZero reports whether no endpoint has been resolved
func (k APIKeys) IsZero() bool {
	return k.SubPage == "" && k.SearchKey == ""
}
