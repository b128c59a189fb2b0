// Package crawl: FIFO queue with deduplication.
// Keeps slugs in discovery order and drops ones already seen.
package crawl

// Queue is a FIFO queue of article slugs with deduplication.
type Queue struct {
	items []string
	seen  map[string]bool
	idx   int // current read position
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: make(map[string]bool),
	}
}

// Add enqueues a slug if it hasn't been seen before. Empty slugs are ignored.
// It reports whether the slug was added.
func (q *Queue) Add(slug string) bool {
	slug = NormalizeSlug(slug)
	if slug == "" || q.seen[slug] {
		return false
	}
	q.seen[slug] = true
	q.items = append(q.items, slug)
	return true
}

// HasNext returns true if there are unprocessed slugs.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed slug and advances the pointer.
func (q *Queue) Next() string {
	slug := q.items[q.idx]
	q.idx++
	return slug
}

// Len returns the total number of unique slugs seen.
func (q *Queue) Len() int {
	return len(q.seen)
}
