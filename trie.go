package pubsubtrie

import "fmt"

// subscription pairs a handle with the verbatim topic it subscribed with.
type subscription struct {
	handle Handle
	topic  string
}

// node is one level of the topic trie. Wildcards are stored as ordinary
// children keyed "+" and "#".
type node struct {
	children map[string]*node
	subs     []subscription
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// isEmpty returns true if the node has no children and no subscriptions.
func (n *node) isEmpty() bool {
	return len(n.children) == 0 && len(n.subs) == 0
}

// ensurePath creates any missing nodes along segments. It is a no-op for
// nodes that already exist.
func (n *node) ensurePath(segments []string) {
	cur := n
	for _, seg := range segments {
		child, ok := cur.children[seg]
		if !ok {
			child = newNode()
			cur.children[seg] = child
		}
		cur = child
	}
}

// insertSubscription attaches sub at the node reached by consuming all of
// segments. The path must already exist.
func (n *node) insertSubscription(segments []string, sub subscription) {
	if len(segments) == 0 {
		panic("pubsubtrie: insertSubscription called with no segments")
	}

	cur := n
	for _, seg := range segments {
		child, ok := cur.children[seg]
		if !ok {
			panic(fmt.Sprintf("pubsubtrie: no node at segment %q of %q", seg, sub.topic))
		}
		cur = child
	}
	cur.subs = append(cur.subs, sub)
}

// removeWhere drops every subscription for which drop returns true, in this
// node and all of its descendants, and returns how many were removed.
func (n *node) removeWhere(drop func(subscription) bool) int {
	removed := 0
	kept := n.subs[:0]
	for _, s := range n.subs {
		if drop(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	// Clear the tail so removed handles can be collected.
	for i := len(kept); i < len(n.subs); i++ {
		n.subs[i] = subscription{}
	}
	n.subs = kept

	for _, child := range n.children {
		removed += child.removeWhere(drop)
	}
	return removed
}

// prune deletes every descendant branch that holds no subscriptions and
// returns how many nodes were deleted. The receiver itself is never deleted.
func (n *node) prune() int {
	pruned := 0
	for seg, child := range n.children {
		pruned += child.prune()
		if child.isEmpty() {
			delete(n.children, seg)
			pruned++
		}
	}
	return pruned
}

// countNodes returns the number of nodes below and including n.
func (n *node) countNodes() int {
	count := 1
	for _, child := range n.children {
		count += child.countNodes()
	}
	return count
}

// countSubscriptions returns the number of subscriptions stored below and
// including n.
func (n *node) countSubscriptions() int {
	count := len(n.subs)
	for _, child := range n.children {
		count += child.countSubscriptions()
	}
	return count
}
