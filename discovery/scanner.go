package discovery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"howlongtobeat/models"
)

// The scan is a bounded heuristic over minified text, not a JS parser. Any
// structural change upstream surfaces as one of the typed errors.
const (
	// bundleMarker identifies the per-build application bundle of the site's
	// front-end framework (/_next/static/chunks/pages/_app-<hash>.js).
	bundleMarker = "/pages/_app-"
	maxPathLen   = 512

	fetchPrefix  = `fetch("/api/`
	concatMarker = ".concat("

	priorityLookahead = 200
	fallbackLookahead = 400
	keyWindow         = 500
	maxLiteralLen     = 128
	maxSubPageLen     = 64

	// maxScanOffset bounds the generic fallback scan.
	maxScanOffset = 4 << 20
)

// searchEndpoints lists sub-page names the site has used for its search
// handler, most recent first.
var searchEndpoints = []string{"search", "seek", "find", "lookup", "locate"}

// nonSearchEndpoints are sub-pages that also build their path with concat
// calls but never serve game searches.
var nonSearchEndpoints = map[string]bool{
	"user":    true,
	"users":   true,
	"game":    true,
	"games":   true,
	"login":   true,
	"logout":  true,
	"auth":    true,
	"session": true,
	"error":   true,
	"stats":   true,
	"track":   true,
	"log":     true,
}

// Match is an accepted endpoint candidate in a bundle. Pos is the offset
// right after the matched `fetch("/api/<sub>/` text.
type Match struct {
	Pos     int
	SubPage string
}

// Discover recovers the endpoint credential from an already fetched host page
// and bundle. It performs no I/O.
func Discover(pageHTML, bundleText string) (models.APIKeys, error) {
	if _, err := FindBundlePath(pageHTML); err != nil {
		return models.APIKeys{}, err
	}
	return ParseBundle(bundleText)
}

// ParseBundle finds the search endpoint in a bundle and extracts its key
func ParseBundle(bundleText string) (models.APIKeys, error) {
	m, err := FindEndpoint(bundleText)
	if err != nil {
		return models.APIKeys{}, err
	}
	key, err := ExtractKey(bundleText, m.Pos)
	if err != nil {
		return models.APIKeys{}, err
	}
	return models.APIKeys{SubPage: m.SubPage, SearchKey: key}, nil
}

// FindBundlePath returns the application bundle path referenced by the host
// page. Script tags are checked first; otherwise the raw text is scanned for
// the quoted path around the bundle marker.
func FindBundlePath(pageHTML string) (string, error) {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML)); err == nil {
		var found string
		doc.Find("script[src]").EachWithBreak(func(i int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			if strings.Contains(src, bundleMarker) {
				found = strings.TrimSpace(src)
				return false
			}
			return true
		})
		if found != "" {
			return found, nil
		}
	}
	return quotedPathAround(pageHTML, bundleMarker)
}

// quotedPathAround extracts the quoted literal that contains marker
func quotedPathAround(text, marker string) (string, error) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", newError(ErrBundlePathNotFound, "marker "+marker+" not present", nil)
	}

	start := -1
	var quote byte
	for i := idx - 1; i >= 0 && idx-i <= maxPathLen; i-- {
		c := text[i]
		if (c == '"' || c == '\'') && (i == 0 || text[i-1] != '\\') {
			start, quote = i, c
			break
		}
	}
	if start < 0 {
		return "", newError(ErrBundlePathNotFound, "no opening quote before marker", nil)
	}

	from := idx + len(marker)
	end := strings.IndexByte(text[from:], quote)
	if end < 0 || end > maxPathLen {
		return "", newError(ErrBundlePathNotFound, "no closing quote after marker", nil)
	}
	end += from

	if start+1 > end {
		return "", newError(ErrBundlePathNotFound, "empty bundle path", nil)
	}
	path := strings.TrimRight(text[start+1:end], `\`)
	if strings.ContainsAny(path, " \t\r\n<>") {
		return "", newError(ErrBundlePathNotFound, "quoted text is not a path", nil)
	}
	return path, nil
}

// FindEndpoint locates the fetch call that builds the search URL. Known
// search sub-pages are tried in priority order; a generic scan over every
// /api/ fetch is the fallback.
func FindEndpoint(bundleText string) (Match, error) {
	for _, token := range searchEndpoints {
		pattern := fetchPrefix + token + "/"
		from := 0
		for {
			i := strings.Index(bundleText[from:], pattern)
			if i < 0 {
				break
			}
			at := from + i
			end := at + len(pattern)
			if hasMarkerWithin(bundleText, end, priorityLookahead) {
				return Match{Pos: end, SubPage: token}, nil
			}
			from = at + 1
		}
	}

	pos := 0
	for pos < len(bundleText) && pos <= maxScanOffset {
		i := strings.Index(bundleText[pos:], fetchPrefix)
		if i < 0 {
			break
		}
		at := pos + i
		if at > maxScanOffset {
			break
		}

		nameStart := at + len(fetchPrefix)
		if name, end, ok := subPageAt(bundleText, nameStart); ok &&
			!nonSearchEndpoints[strings.ToLower(name)] &&
			hasMarkerWithin(bundleText, end, fallbackLookahead) {
			return Match{Pos: end, SubPage: name}, nil
		}
		pos = at + 1
	}

	return Match{}, newError(ErrEndpointPatternNotFound, "no /api/ fetch call followed by a concat chain", nil)
}

// subPageAt reads the path segment starting at from up to the next '/'. It
// returns the offset just past that slash.
func subPageAt(text string, from int) (string, int, bool) {
	limit := min(len(text), from+maxSubPageLen+1)
	if from >= limit {
		return "", 0, false
	}
	slash := strings.IndexByte(text[from:limit], '/')
	if slash <= 0 {
		return "", 0, false
	}
	name := text[from : from+slash]
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return "", 0, false
		}
	}
	return name, from + slash + 1, true
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func hasMarkerWithin(text string, from, window int) bool {
	if from >= len(text) {
		return false
	}
	limit := min(len(text), from+window)
	return strings.Contains(text[from:limit], concatMarker)
}

// ExtractKey concatenates the string literals of the concat chain that
// follows pos. The first concat call may appear anywhere within the key
// window; subsequent calls must chain directly.
func ExtractKey(bundleText string, pos int) (string, error) {
	if pos < 0 || pos > len(bundleText) {
		return "", newError(ErrKeyExtractionFailed, "match position out of range", nil)
	}
	limit := min(len(bundleText), pos+keyWindow)

	var key strings.Builder
	parts := 0
	cur := pos
	for cur < limit {
		var at int
		if parts == 0 {
			i := strings.Index(bundleText[cur:limit], concatMarker)
			if i < 0 {
				break
			}
			at = cur + i
		} else {
			at = skipSpace(bundleText, cur, limit)
			if !strings.HasPrefix(bundleText[at:], concatMarker) {
				break
			}
		}

		q := skipSpace(bundleText, at+len(concatMarker), limit)
		if q >= limit {
			break
		}
		quote := bundleText[q]
		if quote != '"' && quote != '\'' {
			break
		}
		litLimit := min(len(bundleText), q+1+maxLiteralLen)
		end := strings.IndexByte(bundleText[q+1:litLimit], quote)
		if end < 0 {
			break
		}
		key.WriteString(bundleText[q+1 : q+1+end])
		parts++

		cur = skipSpace(bundleText, q+1+end+1, limit)
		if cur >= limit || bundleText[cur] != ')' {
			break
		}
		cur++
	}

	if parts == 0 || key.Len() == 0 {
		return "", newError(ErrKeyExtractionFailed, "no concat literals after endpoint", nil)
	}
	return key.String(), nil
}

func skipSpace(text string, from, limit int) int {
	for from < limit && (text[from] == ' ' || text[from] == '\n' || text[from] == '\t' || text[from] == '\r') {
		from++
	}
	return from
}
