package cache

type lruNode[K comparable] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList is a circular recency list around a sentinel root: root.next is
// the most recently used key, root.prev the least. Cache serializes access.
type lruList[K comparable] struct {
	root lruNode[K]
}

func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.Clear()
	return l
}

func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfterRoot(n)
	return n
}

func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	detach(n)
	l.insertAfterRoot(n)
}

func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n != nil && n.next != nil {
		detach(n)
	}
}

// RemoveOldest pops the least recently used key.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	n := l.root.prev
	if n == &l.root {
		var zero K
		return zero, false
	}
	detach(n)
	return n.key, true
}

func (l *lruList[K]) Clear() {
	l.root.next, l.root.prev = &l.root, &l.root
}

func (l *lruList[K]) insertAfterRoot(n *lruNode[K]) {
	n.prev, n.next = &l.root, l.root.next
	l.root.next.prev = n
	l.root.next = n
}

func detach[K comparable](n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}
