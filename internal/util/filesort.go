package util

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fsclient/fsclient-go/internal/models"
)

var tokenizer = regexp.MustCompile(`(\d+|\D+)`)

type naturalSortToken struct {
	str   string
	num   int
	isNum bool
}

func tokenize(s string) []naturalSortToken {
	parts := tokenizer.FindAllString(s, -1)
	tokens := make([]naturalSortToken, len(parts))
	for i, p := range parts {
		num, err := strconv.Atoi(p)
		if err == nil {
			tokens[i] = naturalSortToken{num: num, isNum: true}
		} else {
			tokens[i] = naturalSortToken{str: strings.ToLower(p), isNum: false}
		}
	}
	return tokens
}

// NaturalSortLess compares two strings in natural order, so that
// "Episode 2" sorts before "Episode 10".
func NaturalSortLess(s1, s2 string) bool {
	t1 := tokenize(s1)
	t2 := tokenize(s2)
	minLen := min(len(t1), len(t2))

	for i := 0; i < minLen; i++ {
		// If one is a number and the other isn't, the number comes first.
		if t1[i].isNum && !t2[i].isNum {
			return true
		}
		if !t1[i].isNum && t2[i].isNum {
			return false
		}

		if t1[i].isNum {
			if t1[i].num != t2[i].num {
				return t1[i].num < t2[i].num
			}
		} else {
			if t1[i].str != t2[i].str {
				return t1[i].str < t2[i].str
			}
		}
	}
	return len(t1) < len(t2)
}

// SortFiles orders files for playback: season, then episode number,
// then natural title order for files whose numbering had to be
// scraped out of titles.
func SortFiles(files []*models.File) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Episode != b.Episode {
			return a.Episode < b.Episode
		}
		return NaturalSortLess(a.Title, b.Title)
	})
}
