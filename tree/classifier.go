package tree

// Classifier is the segment tree used for classification outputs. Leaves
// accumulate a class histogram as rows stream in; SetClass recodes the
// leaves as pos/neg counts for one positive class, and Update answers the
// best contiguous run of sort positions under the max (pos - neg)
// objective.
type Classifier struct {
	root    *node
	leaves  []*node
	cutoffs []float64
	arity   int
}

// node carries the Kadane quantities for its span [first,last] of sort
// positions: the best interval anywhere in the span (opt*), the best
// prefix (left*), the best suffix (right*) and the whole-span total.
type node struct {
	first, last      int
	optStart, optEnd int
	rightCutoff      float64
	left, right      *node

	totalPos, totalNeg int
	optPos, optNeg     int
	leftPos, leftNeg   int
	rightPos, rightNeg int

	totalSum, leftSum, rightSum, optSum float64

	// leftEnd is where the best prefix stops, rightStart where the best
	// suffix begins; they witness leftSum and rightSum.
	leftEnd, rightStart int

	hist []int // leaves only
}

// NewClassifier builds the tree for one column. values must be the
// column's values in ascending order; arity is the number of classes.
func NewClassifier(values []float64, binSize, arity int) *Classifier {
	t := &Classifier{arity: arity}

	spans := binLeaves(values, binSize)
	level := make([]*node, len(spans))
	for i, sp := range spans {
		n := &node{
			first:       sp.first,
			last:        sp.last,
			rightCutoff: sp.cutoff,
			hist:        make([]int, arity),
		}
		n.reset(false)
		level[i] = n
	}

	t.leaves = level
	t.cutoffs = make([]float64, len(level))
	for i, n := range level {
		t.cutoffs[i] = n.rightCutoff
	}

	// pair adjacent nodes until a single root remains; the last node of
	// an odd level has no right sibling
	for len(level) > 1 {
		next := make([]*node, 0, len(level)/2+1)
		for i := 0; i < len(level); i += 2 {
			l := level[i]
			var r *node
			if i+1 < len(level) {
				r = level[i+1]
			}
			next = append(next, newParent(l, r))
		}
		level = next
	}
	t.root = level[0]

	return t
}

func newParent(l, r *node) *node {
	n := &node{first: l.first, left: l, right: r}
	if r != nil {
		n.last = r.last
		n.rightCutoff = r.rightCutoff
	} else {
		n.last = l.last
		n.rightCutoff = l.rightCutoff
	}
	n.reset(false)
	return n
}

// Insert adds one row: binary search on the leaf cutoffs, bump the class
// histogram. Inserts only touch leaves, so they commute.
func (t *Classifier) Insert(value float64, label int) {
	t.leaves[findLeaf(t.cutoffs, value)].hist[label]++
}

// SetClass walks the leaves and recodes their sums as pos - neg for the
// chosen positive class, leaving histograms untouched. The same loaded
// tree can be asked about each class in turn.
func (t *Classifier) SetClass(class int) {
	for _, n := range t.leaves {
		pos := n.hist[class]
		neg := -pos
		for _, c := range n.hist {
			neg += c
		}
		net := float64(pos - neg)

		n.totalSum, n.optSum, n.leftSum, n.rightSum = net, net, net, net
		n.totalPos, n.optPos, n.leftPos, n.rightPos = pos, pos, pos, pos
		n.totalNeg, n.optNeg, n.leftNeg, n.rightNeg = neg, neg, neg, neg
		n.optStart, n.optEnd = n.first, n.last
		n.leftEnd, n.rightStart = n.last, n.first
	}
}

// Update recomputes the root's optimal quantities by post-order traversal.
// Inner nodes are consumed and cleared as their parents aggregate them, so
// the next Update only pays for nodes that hold data.
func (t *Classifier) Update() {
	t.root.update()
}

// Reset clears the tree. With excludeLeaves the leaf histograms survive;
// without, the tree is empty as if freshly built.
func (t *Classifier) Reset(excludeLeaves bool) {
	t.root.resetAll(excludeLeaves)
}

// OptPos returns the positive count of the optimal interval.
func (t *Classifier) OptPos() int { return t.root.optPos }

// OptNeg returns the negative count of the optimal interval.
func (t *Classifier) OptNeg() int { return t.root.optNeg }

// OptimalSum returns the pos - neg value of the optimal interval.
func (t *Classifier) OptimalSum() float64 { return t.root.optSum }

// OptimalRange returns the sort-position interval the optimum covers.
func (t *Classifier) OptimalRange() (start, end int) {
	return t.root.optStart, t.root.optEnd
}

func (n *node) total() int { return n.totalPos + n.totalNeg }

func (n *node) isLeaf() bool { return n.left == nil }

// a node is skipped when it is a leaf or spans no inserted rows
func (n *node) validToUpdate() bool {
	if n.left == nil {
		return false
	}
	if n.left.total() == 0 {
		if n.right == nil || n.right.total() == 0 {
			return false
		}
	}
	return true
}

func (n *node) update() {
	if n.left != nil {
		n.left.update()
	}
	if n.right != nil {
		n.right.update()
	}
	if !n.validToUpdate() {
		return
	}
	n.updateNode()
}

// updateNode aggregates the children:
//
//	opt   = max(L.opt, R.opt, L.suffix + R.prefix)
//	left  = max(L.prefix, L.total + R.prefix)
//	right = max(R.suffix, R.total + L.suffix)
//	total = L.total + R.total
//
// Ties resolve left, then right, then straddle. The children are cleared
// once consumed.
func (n *node) updateNode() {
	l, r := n.left, n.right

	// a lone left child passes its quantities up unchanged
	if r == nil {
		n.optSum, n.optStart, n.optEnd = l.optSum, l.optStart, l.optEnd
		n.optPos, n.optNeg = l.optPos, l.optNeg
		n.leftSum, n.leftPos, n.leftNeg, n.leftEnd = l.leftSum, l.leftPos, l.leftNeg, l.leftEnd
		n.rightSum, n.rightPos, n.rightNeg, n.rightStart = l.rightSum, l.rightPos, l.rightNeg, l.rightStart
		n.totalSum, n.totalPos, n.totalNeg = l.totalSum, l.totalPos, l.totalNeg
		l.reset(true)
		return
	}

	var rOpt, rRight, rLeft, rTotal float64
	if r != nil {
		rOpt = r.optSum
		rTotal = r.totalSum
		rLeft = r.leftSum
		rRight = r.rightSum
	}

	switch maxOf3(l.optSum, rOpt, l.rightSum+rLeft) {
	case 0: // best interval inside the left child
		n.optSum = l.optSum
		n.optStart, n.optEnd = l.optStart, l.optEnd
		n.optPos, n.optNeg = l.optPos, l.optNeg
	case 1: // best interval inside the right child
		n.optSum = rOpt
		if r != nil {
			n.optStart, n.optEnd = r.optStart, r.optEnd
			n.optPos, n.optNeg = r.optPos, r.optNeg
		} else {
			n.optStart, n.optEnd = n.first, n.last
			n.optPos, n.optNeg = 0, 0
		}
	case 2: // left child's suffix joined with right child's prefix
		n.optSum = l.rightSum + rLeft
		n.optStart = l.rightStart
		n.optPos, n.optNeg = l.rightPos, l.rightNeg
		if r != nil {
			n.optEnd = r.leftEnd
			n.optPos += r.leftPos
			n.optNeg += r.leftNeg
		} else {
			n.optEnd = l.last
		}
	}

	// best prefix of the combined span
	if l.leftSum >= l.totalSum+rLeft {
		n.leftSum = l.leftSum
		n.leftPos, n.leftNeg = l.leftPos, l.leftNeg
		n.leftEnd = l.leftEnd
	} else {
		n.leftSum = l.totalSum + rLeft
		n.leftPos, n.leftNeg = l.totalPos, l.totalNeg
		if r != nil {
			n.leftPos += r.leftPos
			n.leftNeg += r.leftNeg
			n.leftEnd = r.leftEnd
		} else {
			n.leftEnd = l.last
		}
	}

	// best suffix of the combined span
	if rRight >= rTotal+l.rightSum {
		n.rightSum = rRight
		if r != nil {
			n.rightPos, n.rightNeg = r.rightPos, r.rightNeg
			n.rightStart = r.rightStart
		} else {
			n.rightPos, n.rightNeg = 0, 0
			n.rightStart = n.last
		}
	} else {
		n.rightSum = rTotal + l.rightSum
		n.rightPos, n.rightNeg = l.rightPos, l.rightNeg
		n.rightStart = l.rightStart
		if r != nil {
			n.rightPos += r.totalPos
			n.rightNeg += r.totalNeg
		}
	}

	n.totalSum = l.totalSum + rTotal
	n.totalPos = l.totalPos
	n.totalNeg = l.totalNeg
	if r != nil {
		n.totalPos += r.totalPos
		n.totalNeg += r.totalNeg
	}

	l.reset(true)
	if r != nil {
		r.reset(true)
	}
}

func (n *node) reset(excludeLeaves bool) {
	n.totalSum, n.optSum, n.leftSum, n.rightSum = 0, 0, 0, 0
	n.totalPos, n.optPos, n.leftPos, n.rightPos = 0, 0, 0, 0
	n.totalNeg, n.optNeg, n.leftNeg, n.rightNeg = 0, 0, 0, 0
	n.optStart, n.optEnd = n.first, n.last
	n.leftEnd, n.rightStart = n.last, n.first

	if !excludeLeaves && n.hist != nil {
		for i := range n.hist {
			n.hist[i] = 0
		}
	}
}

func (n *node) resetAll(excludeLeaves bool) {
	n.reset(excludeLeaves)
	if n.left != nil {
		n.left.resetAll(excludeLeaves)
	}
	if n.right != nil {
		n.right.resetAll(excludeLeaves)
	}
}
