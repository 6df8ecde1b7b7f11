package stream

import "sync/atomic"

// taskNode is a node of the fork/join task tree. Tasks to the right of a
// node cover elements that come later in encounter order.
type taskNode struct {
	parent *taskNode
	// sibling is the right sibling of a left child.
	sibling  *taskNode
	canceled atomic.Bool
}

func (n *taskNode) isCanceled() bool {
	for ; n != nil; n = n.parent {
		if n.canceled.Load() {
			return true
		}
	}
	return false
}

// cancelLaterNodes cancels every task covering elements after n.
func (n *taskNode) cancelLaterNodes() {
	for ; n != nil; n = n.parent {
		if n.sibling != nil {
			n.sibling.canceled.Store(true)
		}
	}
}

// forkJoin splits cur until the pieces are small enough, evaluates every
// piece with leaf and merges the results with combine in split order.
// Leaves receive the position of their first element, which is exact when
// cur is Sized and Subsized.
func forkJoin[R any](ev *evaluation, cur cursor, leaf func(cur cursor, offset int64, node *taskNode) R, combine func(l, r R) R) R {
	threshold := max(cur.estimateSize()/int64(ev.exec.leafTarget()), 1)
	return compute(ev, cur, threshold, 0, &taskNode{}, leaf, combine)
}

func compute[R any](ev *evaluation, cur cursor, threshold, offset int64, node *taskNode, leaf func(cursor, int64, *taskNode) R, combine func(l, r R) R) (result R) {
	defer ev.capture()

	if cur.estimateSize() > threshold && !ev.stopped() && !node.isCanceled() {
		if left := cur.trySplit(); left != nil {
			leftNode := &taskNode{parent: node}
			rightNode := &taskNode{parent: node}
			leftNode.sibling = rightNode
			rightOffset := offset + left.estimateSize()

			var right R
			done := make(chan struct{})
			task := func() {
				defer close(done)
				right = compute(ev, cur, threshold, rightOffset, rightNode, leaf, combine)
			}
			forked := ev.exec.fork(task)
			l := compute(ev, left, threshold, offset, leftNode, leaf, combine)
			if forked {
				<-done
			} else {
				task()
			}
			if ev.aborted.Load() {
				return result
			}
			return combine(l, right)
		}
	}
	return leaf(cur, offset, node)
}
