package search

import "strings"

// rejectedURLFragments mark search or category pages rather than a single ad.
var rejectedURLFragments = []string{"?q=", "busca", "pesquisa", "&"}

// AdmitURL reports whether url looks like a direct link to one listing.
func AdmitURL(url string) bool {
	u := strings.ToLower(strings.TrimSpace(url))
	if u == "" {
		return false
	}
	for _, frag := range rejectedURLFragments {
		if strings.Contains(u, frag) {
			return false
		}
	}
	return true
}
