package news

import "strings"

// TrendingBucket is the default bucket label used when no structural
// category filter is active.
const TrendingBucket = "Trending"

// Bucket is one display group of articles.
type Bucket struct {
	Name     string
	Articles []Article
}

// Group partitions articles into display buckets: first by include topic
// (submission order), then by structurally selected category (selection
// order), with the remainder in a Trending bucket when no category
// filter is active. Every article lands in exactly one bucket; when an
// article qualifies under both an include topic and a structural
// category, the include-topic bucket wins.
func Group(articles []Article, includeTopics, categories []string) []Bucket {
	// Include topics may shadow selected categories; drop the overlap so
	// the same label never produces two buckets.
	remaining := make([]string, 0, len(categories))
	for _, cat := range categories {
		if !containsFold(includeTopics, cat) {
			remaining = append(remaining, cat)
		}
	}

	var buckets []Bucket
	assigned := make([]bool, len(articles))

	appendBucket := func(name string, match func(Article) bool) {
		b := Bucket{Name: name}
		for i, a := range articles {
			if assigned[i] || !match(a) {
				continue
			}
			b.Articles = append(b.Articles, a)
			assigned[i] = true
		}
		buckets = append(buckets, b)
	}

	for _, topic := range includeTopics {
		topic := topic
		appendBucket(topic, func(a Article) bool {
			return strings.EqualFold(a.Category, topic)
		})
	}
	for _, cat := range remaining {
		cat := cat
		appendBucket(cat, func(a Article) bool {
			return strings.EqualFold(a.Category, cat)
		})
	}

	// Whatever is left goes into the default bucket. With an active
	// category filter there should be nothing left, but an article with
	// an unmatched tag must still appear somewhere.
	unassigned := 0
	for _, ok := range assigned {
		if !ok {
			unassigned++
		}
	}
	if unassigned > 0 || len(includeTopics)+len(remaining) == 0 {
		appendBucket(TrendingBucket, func(Article) bool { return true })
	}

	return buckets
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
