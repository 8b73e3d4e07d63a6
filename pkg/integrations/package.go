package integrations

// PackageInfo is one search hit or package summary as reported by a
// metadata source. Fields a source does not provide stay empty.
type PackageInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Versions    []string `json:"versions,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Score       int      `json:"score,omitempty"` // relevance as an integer percentage
	CDN         string   `json:"cdn,omitempty"`   // id of the provider that answered
}

// Truncate returns at most n leading entries of versions.
func Truncate(versions []string, n int) []string {
	if len(versions) > n {
		return versions[:n]
	}
	return versions
}
