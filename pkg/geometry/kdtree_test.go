package geometry

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

// randomScene mixes small spheres and triangles with a large floor that
// straddles most split planes
func randomScene(random *rand.Rand, count int) []Primitive {
	primitives := []Primitive{
		NewTriangle(core.NewVec3(-20, -3, -20), core.NewVec3(20, -3, -20), core.NewVec3(-20, -3, 20)),
		NewTriangle(core.NewVec3(20, -3, 20), core.NewVec3(20, -3, -20), core.NewVec3(-20, -3, 20)),
	}
	for i := 0; i < count; i++ {
		center := randomVec(random, 8)
		if i%2 == 0 {
			primitives = append(primitives, NewSphere(center, 0.1+random.Float64()*0.6))
			continue
		}
		primitives = append(primitives, NewTriangle(
			center,
			center.Add(randomVec(random, 0.8)),
			center.Add(randomVec(random, 0.8)),
		))
	}
	return primitives
}

func TestKDTree_MatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for _, count := range []int{0, 1, 3, 4, 17, 120, 400} {
		primitives := randomScene(random, count)
		tree := NewKDTree(primitives)

		for i := 0; i < 2000; i++ {
			var origin core.Vec3
			if i%3 == 0 {
				// Origins among the primitives, like secondary rays
				origin = randomVec(random, 4)
			} else {
				origin = randomVec(random, 15)
			}
			ray := core.NewRay(origin, randomVec(random, 1))

			wantIdx, wantT, wantOk := NearestHitAll(primitives, ray)
			gotIdx, gotT, gotOk := tree.Intersect(primitives, ray)

			if wantOk != gotOk || wantIdx != gotIdx || wantT != gotT {
				t.Fatalf("count=%d ray=%v: linear scan (%d, %f, %v) != tree (%d, %f, %v)",
					count, ray, wantIdx, wantT, wantOk, gotIdx, gotT, gotOk)
			}
		}
	}
}

func TestKDTree_AxisAlignedRays(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	primitives := randomScene(random, 60)
	tree := NewKDTree(primitives)

	directions := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1),
	}

	for i := 0; i < 300; i++ {
		origin := randomVec(random, 10)
		for _, dir := range directions {
			ray := core.NewRay(origin, dir)
			wantIdx, wantT, wantOk := NearestHitAll(primitives, ray)
			gotIdx, gotT, gotOk := tree.Intersect(primitives, ray)
			if wantOk != gotOk || wantIdx != gotIdx || wantT != gotT {
				t.Fatalf("ray=%v: linear scan (%d, %f, %v) != tree (%d, %f, %v)",
					ray, wantIdx, wantT, wantOk, gotIdx, gotT, gotOk)
			}
		}
	}
}

func TestKDTree_EveryIndexInALeaf(t *testing.T) {
	random := rand.New(rand.NewSource(5))
	primitives := randomScene(random, 250)
	tree := NewKDTree(primitives)

	seen := make([]bool, len(primitives))
	tree.Walk(func(node *KDNode, depth int) {
		if !node.IsLeaf() {
			if node.Left == nil || node.Right == nil {
				t.Fatalf("Branch at depth %d must own two children", depth)
			}
			return
		}
		for _, idx := range node.Indices {
			seen[idx] = true
		}
		if len(node.Indices) > LeafThreshold && depth < MaxTreeDepth {
			t.Errorf("Leaf at depth %d holds %d primitives above the threshold", depth, len(node.Indices))
		}
		if depth > MaxTreeDepth {
			t.Errorf("Leaf at depth %d exceeds max depth", depth)
		}
	})

	for idx, ok := range seen {
		if !ok {
			t.Errorf("Primitive %d is not referenced by any leaf", idx)
		}
	}
}

func TestKDTree_SplitAxisCycles(t *testing.T) {
	random := rand.New(rand.NewSource(9))
	tree := NewKDTree(randomScene(random, 100))

	tree.Walk(func(node *KDNode, depth int) {
		if node.IsLeaf() {
			return
		}
		if expected := core.Axis(depth % 3); node.Axis != expected {
			t.Fatalf("Branch at depth %d splits on %v, expected %v", depth, node.Axis, expected)
		}
	})
}

func TestKDTree_StraddlingPrimitiveInBothChildren(t *testing.T) {
	primitives := []Primitive{
		NewSphere(core.NewVec3(-4, 0, 0), 0.5),
		NewSphere(core.NewVec3(-3, 0, 0), 0.5),
		NewSphere(core.NewVec3(3, 0, 0), 0.5),
		NewSphere(core.NewVec3(4, 0, 0), 0.5),
		NewSphere(core.NewVec3(0, 0, 0), 1), // crosses x = 0
	}
	tree := NewKDTree(primitives)

	if tree.Root.IsLeaf() {
		t.Fatal("Expected the root to split")
	}
	if tree.Root.Axis != core.AxisX || tree.Root.Split != 0 {
		t.Fatalf("Expected root split at x=0, got %v=%f", tree.Root.Axis, tree.Root.Split)
	}

	contains := func(node *KDNode, idx int) bool {
		found := false
		walkKDNode(node, 0, func(n *KDNode, _ int) {
			for _, i := range n.Indices {
				if i == idx {
					found = true
				}
			}
		})
		return found
	}
	if !contains(tree.Root.Left, 4) || !contains(tree.Root.Right, 4) {
		t.Error("Straddling sphere must be referenced on both sides of the split")
	}

	stats := tree.Stats()
	if stats.References <= len(primitives) {
		t.Errorf("Expected duplicated references, got %d for %d primitives", stats.References, len(primitives))
	}
}

func TestKDTree_Empty(t *testing.T) {
	tree := NewKDTree(nil)
	if !tree.Root.IsLeaf() || len(tree.Root.Indices) != 0 {
		t.Fatal("Empty tree should be a single empty leaf")
	}
	if _, _, ok := tree.Intersect(nil, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))); ok {
		t.Error("Empty tree must not report hits")
	}
}

func TestKDTree_Validate(t *testing.T) {
	primitives := randomScene(rand.New(rand.NewSource(7)), 40)
	if err := NewKDTree(primitives).Validate(len(primitives)); err != nil {
		t.Fatalf("A freshly built tree should validate: %v", err)
	}
	if err := NewKDTree(nil).Validate(0); err != nil {
		t.Fatalf("An empty tree should validate: %v", err)
	}

	deep := &KDNode{}
	for i := 0; i <= MaxTreeDepth; i++ {
		deep = &KDNode{Left: deep, Right: &KDNode{}}
	}

	tests := []struct {
		name string
		tree *KDTree
	}{
		{"Missing root", &KDTree{}},
		{"Leaf index past the end", &KDTree{Root: &KDNode{Indices: []int{0, 7}}}},
		{"Negative leaf index", &KDTree{Root: &KDNode{Indices: []int{-1}}}},
		{"Branch without right child", &KDTree{Root: &KDNode{Left: &KDNode{Indices: []int{0}}}}},
		{"Branch without left child", &KDTree{Root: &KDNode{Right: &KDNode{Indices: []int{0}}}}},
		{"Too deep", &KDTree{Root: deep}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tree.Validate(1); !errors.Is(err, ErrInvalidTree) {
				t.Errorf("Expected ErrInvalidTree, got %v", err)
			}
		})
	}
}
