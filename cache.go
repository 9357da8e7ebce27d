package pubsubtrie

// resultCache memoizes match results by exact published topic. Entries are
// only valid until the next subscribe or unsubscribe, which clear it
// entirely.
type resultCache struct {
	entries map[string][]Handle
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string][]Handle)}
}

func (c *resultCache) get(topic string) ([]Handle, bool) {
	handles, ok := c.entries[topic]
	return handles, ok
}

// put stores handles under topic. The cache keeps its own copy.
func (c *resultCache) put(topic string, handles []Handle) {
	c.entries[topic] = append([]Handle(nil), handles...)
}

// invalidate drops every entry and returns how many were held.
func (c *resultCache) invalidate() int {
	n := len(c.entries)
	if n > 0 {
		c.entries = make(map[string][]Handle)
	}
	return n
}

func (c *resultCache) len() int {
	return len(c.entries)
}
