package commenttree

import "github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"

// location pins a node inside the forest. parent is nil for roots.
type location struct {
	parent *domain.Comment
	index  int
	node   *domain.Comment
	depth  int
}

type visitFunc func(loc location) bool

// walk visits nodes depth-first in display order and stops when fn returns false
func walk(nodes []*domain.Comment, parent *domain.Comment, depth int, fn visitFunc) bool {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		if !fn(location{parent: parent, index: i, node: n, depth: depth}) {
			return false
		}
		if !walk(n.Replies, n, depth+1, fn) {
			return false
		}
	}
	return true
}

// locate finds a node by id anywhere in the forest
func locate(roots []*domain.Comment, id string) (location, bool) {
	var found location
	ok := false
	walk(roots, nil, 0, func(loc location) bool {
		if loc.node.ID == id {
			found, ok = loc, true
			return false
		}
		return true
	})
	return found, ok
}

func countNodes(roots []*domain.Comment) int {
	n := 0
	walk(roots, nil, 0, func(location) bool {
		n++
		return true
	})
	return n
}

func collectIDs(roots []*domain.Comment, into map[string]struct{}) {
	walk(roots, nil, 0, func(loc location) bool {
		into[loc.node.ID] = struct{}{}
		return true
	})
}

// insertAt returns nodes with c inserted at index, clamped to the valid range
func insertAt(nodes []*domain.Comment, index int, c *domain.Comment) []*domain.Comment {
	if index < 0 {
		index = 0
	}
	if index > len(nodes) {
		index = len(nodes)
	}
	nodes = append(nodes, nil)
	copy(nodes[index+1:], nodes[index:])
	nodes[index] = c
	return nodes
}

func removeAt(nodes []*domain.Comment, index int) []*domain.Comment {
	copy(nodes[index:], nodes[index+1:])
	nodes[len(nodes)-1] = nil
	return nodes[:len(nodes)-1]
}

func indexOf(nodes []*domain.Comment, c *domain.Comment) int {
	for i, n := range nodes {
		if n == c {
			return i
		}
	}
	return -1
}

// siblings records the neighbours of a node at the moment it leaves its
// sequence, nearest first on both sides
type siblings struct {
	before []*domain.Comment
	after  []*domain.Comment
	index  int
}

func captureSiblings(nodes []*domain.Comment, index int) siblings {
	sb := siblings{index: index}
	for i := index - 1; i >= 0; i-- {
		sb.before = append(sb.before, nodes[i])
	}
	sb.after = append(sb.after, nodes[index+1:]...)
	return sb
}

// reinsertIndex places a node back next to the nearest neighbour that is still
// in nodes: right after a preceding one, else right before a following one.
// The recorded index is used only when no neighbour survived.
func (sb siblings) reinsertIndex(nodes []*domain.Comment) int {
	for _, n := range sb.before {
		if i := indexOf(nodes, n); i >= 0 {
			return i + 1
		}
	}
	for _, n := range sb.after {
		if i := indexOf(nodes, n); i >= 0 {
			return i
		}
	}
	return sb.index
}
