package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

const (
	// MaxTreeDepth caps the recursion of the tree build
	MaxTreeDepth = 20
	// LeafThreshold is the primitive count at or below which a node becomes a leaf
	LeafThreshold = 3
)

// ErrInvalidTree is returned by Validate for a tree that could not have come
// from NewKDTree over the given primitives
var ErrInvalidTree = errors.New("geometry: invalid kd-tree")

// KDNode is either a branch (Left and Right set) splitting space at Split along
// Axis, or a leaf holding primitive indices. Each branch owns its children
// exclusively and nodes are never modified after the build.
type KDNode struct {
	Axis    core.Axis
	Split   float64
	Left    *KDNode
	Right   *KDNode
	Indices []int
}

// IsLeaf reports whether the node holds primitive indices
func (n *KDNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// KDTree is a binary space-partitioning tree over primitive bounding boxes.
// It stores indices into the primitive slice it was built from; the same slice
// must be passed to Intersect.
type KDTree struct {
	Root   *KDNode
	Bounds core.AABB
}

// NewKDTree builds the tree top-down, splitting the current box at its
// midpoint and cycling the split axis X -> Y -> Z. A primitive straddling a
// split plane is referenced by both children.
func NewKDTree(primitives []Primitive) *KDTree {
	bounds := core.EmptyAABB()
	indices := make([]int, len(primitives))
	for i, p := range primitives {
		indices[i] = i
		bounds = bounds.Union(p.BoundingBox())
	}

	return &KDTree{
		Root:   buildKDNode(primitives, indices, bounds, 0, core.AxisX),
		Bounds: bounds,
	}
}

func buildKDNode(primitives []Primitive, indices []int, bounds core.AABB, depth int, axis core.Axis) *KDNode {
	if depth >= MaxTreeDepth || len(indices) <= LeafThreshold {
		return &KDNode{Indices: indices}
	}

	leftBounds, rightBounds, split := bounds.Split(axis)

	var left, right []int
	for _, idx := range indices {
		p := primitives[idx]
		isLeft := p.LeftOf(axis, split)
		isRight := p.RightOf(axis, split)

		// NaN bounds compare false both ways; keep the index reachable
		if !isLeft && !isRight {
			isLeft, isRight = true, true
		}
		if isLeft {
			left = append(left, idx)
		}
		if isRight {
			right = append(right, idx)
		}
	}

	return &KDNode{
		Axis:  axis,
		Split: split,
		Left:  buildKDNode(primitives, left, leftBounds, depth+1, axis.Next()),
		Right: buildKDNode(primitives, right, rightBounds, depth+1, axis.Next()),
	}
}

// Intersect returns the index and distance of the nearest primitive hit by
// the ray. The answer is identical to a linear scan over all primitives.
func (tree *KDTree) Intersect(primitives []Primitive, ray core.Ray) (int, float64, bool) {
	if tree == nil || tree.Root == nil {
		return -1, 0, false
	}
	return tree.intersectNode(tree.Root, primitives, ray)
}

func (tree *KDTree) intersectNode(node *KDNode, primitives []Primitive, ray core.Ray) (int, float64, bool) {
	if node.IsLeaf() {
		return NearestHit(primitives, node.Indices, ray)
	}

	dist := ray.Origin.Component(node.Axis) - node.Split
	dir := ray.Direction.Component(node.Axis)

	switch {
	case dist < 0 && dir < 0:
		return tree.intersectNode(node.Left, primitives, ray)
	case dist >= 0 && dir >= 0:
		return tree.intersectNode(node.Right, primitives, ray)
	}

	// The ray crosses the plane: probe the side holding the origin first
	near, far := node.Right, node.Left
	if dist < 0 {
		near, far = node.Left, node.Right
	}

	tPlane := math.Inf(1)
	if dir != 0 {
		tPlane = -dist / dir
	}

	idx, t, ok := tree.intersectNode(near, primitives, ray)
	if ok && t <= tPlane {
		// Everything only on the far side lies beyond the plane
		return idx, t, true
	}

	farIdx, farT, farOk := tree.intersectNode(far, primitives, ray)
	switch {
	case !ok:
		return farIdx, farT, farOk
	case !farOk:
		return idx, t, true
	case closer(farIdx, farT, idx, t):
		return farIdx, farT, true
	default:
		return idx, t, true
	}
}

// NearestHit scans the given primitive indices and keeps the minimum positive
// hit distance.
func NearestHit(primitives []Primitive, indices []int, ray core.Ray) (int, float64, bool) {
	bestIdx, bestT, found := -1, 0.0, false
	for _, idx := range indices {
		t, ok := primitives[idx].Intersect(ray)
		if ok && (!found || closer(idx, t, bestIdx, bestT)) {
			bestIdx, bestT, found = idx, t, true
		}
	}
	return bestIdx, bestT, found
}

// NearestHitAll is the O(n) scan over every primitive
func NearestHitAll(primitives []Primitive, ray core.Ray) (int, float64, bool) {
	bestIdx, bestT, found := -1, 0.0, false
	for idx := range primitives {
		t, ok := primitives[idx].Intersect(ray)
		if ok && (!found || closer(idx, t, bestIdx, bestT)) {
			bestIdx, bestT, found = idx, t, true
		}
	}
	return bestIdx, bestT, found
}

// closer orders hits by distance, breaking ties on the lower primitive index
// so that every traversal order produces the same answer.
func closer(idxA int, tA float64, idxB int, tB float64) bool {
	if tA != tB {
		return tA < tB
	}
	return idxA < idxB
}

// KDStats summarizes the shape of a built tree
type KDStats struct {
	Nodes       int
	Leaves      int
	MaxDepth    int
	MaxLeafSize int
	References  int // Sum of leaf sizes; exceeds the primitive count when primitives straddle planes
}

// Stats walks the tree and returns its statistics
func (tree *KDTree) Stats() KDStats {
	var stats KDStats
	tree.Walk(func(node *KDNode, depth int) {
		stats.Nodes++
		stats.MaxDepth = max(stats.MaxDepth, depth)
		if node.IsLeaf() {
			stats.Leaves++
			stats.References += len(node.Indices)
			stats.MaxLeafSize = max(stats.MaxLeafSize, len(node.Indices))
		}
	})
	return stats
}

// Walk visits every node depth-first, parents before children
func (tree *KDTree) Walk(visit func(node *KDNode, depth int)) {
	if tree == nil || tree.Root == nil {
		return
	}
	walkKDNode(tree.Root, 0, visit)
}

func walkKDNode(node *KDNode, depth int, visit func(node *KDNode, depth int)) {
	visit(node, depth)
	if node.IsLeaf() {
		return
	}
	walkKDNode(node.Left, depth+1, visit)
	walkKDNode(node.Right, depth+1, visit)
}

// Validate checks a tree received from elsewhere against a primitive count:
// every branch has both children, every leaf index is in [0, count) and no
// path is deeper than MaxTreeDepth.
func (tree *KDTree) Validate(count int) error {
	if tree.Root == nil {
		return fmt.Errorf("%w: missing root", ErrInvalidTree)
	}
	return validateKDNode(tree.Root, 0, count)
}

func validateKDNode(node *KDNode, depth, count int) error {
	if depth > MaxTreeDepth {
		return fmt.Errorf("%w: deeper than %d", ErrInvalidTree, MaxTreeDepth)
	}
	if node.IsLeaf() {
		for _, idx := range node.Indices {
			if idx < 0 || idx >= count {
				return fmt.Errorf("%w: leaf references primitive %d of %d", ErrInvalidTree, idx, count)
			}
		}
		return nil
	}
	if node.Left == nil || node.Right == nil {
		return fmt.Errorf("%w: branch at depth %d has one child", ErrInvalidTree, depth)
	}
	if err := validateKDNode(node.Left, depth+1, count); err != nil {
		return err
	}
	return validateKDNode(node.Right, depth+1, count)
}
