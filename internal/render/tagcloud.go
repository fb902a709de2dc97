package render

import (
	"math"
	"sort"
	"strconv"
)

// TagCount is a tag and the number of listed posts carrying it.
type TagCount struct {
	Name  string
	Slug  string
	Count int
}

// TagCloudSize is the font size, in rem, of a tag used count times.
func TagCloudSize(count int) float64 {
	return math.Max(1.0, math.Min(2.5, 0.8+float64(count)*0.15))
}

// TagCloud orders tags by count, most used first, then by name.
func TagCloud(tags []TagCount, link func(slug string) string) []TagCloudItem {
	sorted := append([]TagCount(nil), tags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})
	out := make([]TagCloudItem, 0, len(sorted))
	for _, t := range sorted {
		out = append(out, TagCloudItem{
			Name:  t.Name,
			URL:   link(t.Slug),
			Count: t.Count,
			Size:  strconv.FormatFloat(math.Round(TagCloudSize(t.Count)*100)/100, 'f', -1, 64),
		})
	}
	return out
}
