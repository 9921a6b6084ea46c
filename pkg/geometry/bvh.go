package geometry

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// SplitMethod selects how BVH construction partitions primitives
type SplitMethod int

const (
	// SplitEqual splits at the median centroid, giving a balanced tree
	SplitEqual SplitMethod = iota
	// SplitMiddle splits at the spatial midpoint of the centroid range
	SplitMiddle
	// SplitSAH minimizes the surface area heuristic over binned candidates
	SplitSAH
)

// ParseSplitMethod converts a configuration string to a SplitMethod
func ParseSplitMethod(name string) (SplitMethod, error) {
	switch name {
	case "equal":
		return SplitEqual, nil
	case "middle", "":
		return SplitMiddle, nil
	case "sah":
		return SplitSAH, nil
	}
	return 0, fmt.Errorf("unknown split method %q", name)
}

func (m SplitMethod) String() string {
	switch m {
	case SplitEqual:
		return "equal"
	case SplitMiddle:
		return "middle"
	case SplitSAH:
		return "sah"
	}
	return fmt.Sprintf("SplitMethod(%d)", int(m))
}

// Leaf threshold: if we have this many or fewer surfaces, store them in a leaf node
const leafThreshold = 3

// Subtrees with at least this many primitives are built on their own goroutine
const parallelBuildThreshold = 1024

// Number of buckets evaluated by the SAH split
const sahBuckets = 12

// bvhNode is either a leaf (surfaces != nil) or an interior node with two children
type bvhNode struct {
	bounds   core.AABB
	left     *bvhNode
	right    *bvhNode
	surfaces []Surface
}

// BVH is a bounding volume hierarchy over a fixed set of surfaces
type BVH struct {
	root  *bvhNode
	all   *LinearGroup // Flat view used for emitter sampling
	split SplitMethod
}

// primitive caches the bounds and centroid of a surface during construction
type primitive struct {
	surface  Surface
	bounds   core.AABB
	centroid core.Vec3
}

// NewBVH constructs a BVH from a slice of surfaces. The input slice is not modified.
func NewBVH(surfaces []Surface, split SplitMethod) *BVH {
	bvh := &BVH{all: NewLinearGroup(surfaces), split: split}
	if len(surfaces) == 0 {
		return bvh
	}

	prims := make([]primitive, len(surfaces))
	for i, s := range surfaces {
		b := s.Bounds()
		prims[i] = primitive{surface: s, bounds: b, centroid: b.Center()}
	}
	bvh.root = buildBVH(prims, split)
	return bvh
}

// buildBVH recursively partitions prims in place. The two halves are disjoint
// subslices, so large halves are built concurrently.
func buildBVH(prims []primitive, split SplitMethod) *bvhNode {
	bounds := core.EmptyAABB()
	centroids := core.EmptyAABB()
	for _, p := range prims {
		bounds = bounds.Enclose(p.bounds)
		centroids = centroids.EnclosePoint(p.centroid)
	}

	// Base case: few surfaces - create leaf node with all of them
	if len(prims) <= leafThreshold {
		leaf := make([]Surface, len(prims))
		for i, p := range prims {
			leaf[i] = p.surface
		}
		return &bvhNode{bounds: bounds, surfaces: leaf}
	}

	axis := centroids.LongestAxis()
	var mid int
	switch split {
	case SplitEqual:
		mid = splitEqual(prims, axis)
	case SplitSAH:
		mid = splitSAH(prims, axis, bounds, centroids)
	default:
		mid = splitMiddle(prims, axis, centroids)
	}

	node := &bvhNode{bounds: bounds}
	if len(prims) >= parallelBuildThreshold {
		var g errgroup.Group
		g.Go(func() error {
			node.left = buildBVH(prims[:mid], split)
			return nil
		})
		node.right = buildBVH(prims[mid:], split)
		_ = g.Wait()
	} else {
		node.left = buildBVH(prims[:mid], split)
		node.right = buildBVH(prims[mid:], split)
	}
	return node
}

// splitEqual places the median centroid at the midpoint index
func splitEqual(prims []primitive, axis int) int {
	mid := len(prims) / 2
	selectNth(prims, mid, axis)
	return mid
}

// selectNth reorders prims so that prims[k] holds the element that would be
// there if sorted by centroid, with no larger element before it and no
// smaller element after it
func selectNth(prims []primitive, k, axis int) {
	lo, hi := 0, len(prims)-1
	for lo < hi {
		pivot := prims[(lo+hi)/2].centroid.Axis(axis)
		i, j := lo, hi
		for i <= j {
			for prims[i].centroid.Axis(axis) < pivot {
				i++
			}
			for prims[j].centroid.Axis(axis) > pivot {
				j--
			}
			if i <= j {
				prims[i], prims[j] = prims[j], prims[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}

// splitMiddle partitions at the spatial midpoint of the centroid range. When
// every centroid lands on one side the split index is moved inward by the
// leaf threshold.
func splitMiddle(prims []primitive, axis int, centroids core.AABB) int {
	pivot := (centroids.Min.Axis(axis) + centroids.Max.Axis(axis)) / 2
	mid := partition(prims, func(p primitive) bool { return p.centroid.Axis(axis) < pivot })
	if mid == 0 {
		mid = leafThreshold
	} else if mid == len(prims) {
		mid = len(prims) - leafThreshold
	}
	return mid
}

// partition moves the primitives satisfying left to the front and returns their count
func partition(prims []primitive, left func(primitive) bool) int {
	mid := 0
	for i := range prims {
		if left(prims[i]) {
			prims[i], prims[mid] = prims[mid], prims[i]
			mid++
		}
	}
	return mid
}

// splitSAH buckets centroids along axis and picks the bucket boundary with the
// lowest surface area heuristic cost. Degenerate centroid ranges fall back to
// an equal split.
func splitSAH(prims []primitive, axis int, bounds, centroids core.AABB) int {
	lo, hi := centroids.Min.Axis(axis), centroids.Max.Axis(axis)
	if hi <= lo {
		return splitEqual(prims, axis)
	}

	bucketOf := func(p primitive) int {
		b := int(sahBuckets * (p.centroid.Axis(axis) - lo) / (hi - lo))
		return min(max(b, 0), sahBuckets-1)
	}

	type bucket struct {
		count  int
		bounds core.AABB
	}
	var buckets [sahBuckets]bucket
	for i := range buckets {
		buckets[i].bounds = core.EmptyAABB()
	}
	for _, p := range prims {
		b := &buckets[bucketOf(p)]
		b.count++
		b.bounds = b.bounds.Enclose(p.bounds)
	}

	// Sweep from the right to get suffix counts and areas
	var rightCount [sahBuckets]int
	var rightArea [sahBuckets]float64
	acc, count := core.EmptyAABB(), 0
	for i := sahBuckets - 1; i > 0; i-- {
		acc = acc.Enclose(buckets[i].bounds)
		count += buckets[i].count
		rightCount[i] = count
		rightArea[i] = acc.SurfaceArea()
	}

	best, bestCost := -1, math.Inf(1)
	parentArea := bounds.SurfaceArea()
	acc, count = core.EmptyAABB(), 0
	for i := 0; i < sahBuckets-1; i++ {
		acc = acc.Enclose(buckets[i].bounds)
		count += buckets[i].count
		if count == 0 || rightCount[i+1] == 0 {
			continue
		}
		cost := 0.125 + (float64(count)*acc.SurfaceArea()+float64(rightCount[i+1])*rightArea[i+1])/parentArea
		if cost < bestCost {
			best, bestCost = i, cost
		}
	}
	if best < 0 || parentArea == 0 {
		return splitEqual(prims, axis)
	}
	return partition(prims, func(p primitive) bool { return bucketOf(p) <= best })
}

func (*BVH) surface() {}

// Intersect returns the closest hit in the hierarchy
func (bvh *BVH) Intersect(ray core.Ray) (material.HitInfo, bool) {
	if bvh.root == nil {
		return material.HitInfo{}, false
	}
	return bvh.root.intersect(ray)
}

// intersect tests the node's box, then every child, keeping the closest hit
func (n *bvhNode) intersect(ray core.Ray) (material.HitInfo, bool) {
	if !n.bounds.Intersect(ray) {
		return material.HitInfo{}, false
	}
	if n.surfaces != nil {
		return intersectAll(n.surfaces, ray)
	}

	closest, hitAnything := n.left.intersect(ray)
	if hitAnything {
		ray.MaxT = closest.T
	}
	if hit, ok := n.right.intersect(ray); ok {
		closest = hit
		hitAnything = true
	}
	return closest, hitAnything
}

// Bounds returns the bounding box of the whole hierarchy
func (bvh *BVH) Bounds() core.AABB {
	if bvh.root == nil {
		return core.EmptyAABB()
	}
	return bvh.root.bounds
}

// Sample picks one of the contained surfaces uniformly
func (bvh *BVH) Sample(origin core.Vec3, rv core.Vec2) (EmitterRecord, bool) {
	return bvh.all.Sample(origin, rv)
}

// PDF averages the contained surfaces' densities
func (bvh *BVH) PDF(origin, direction core.Vec3) float64 {
	return bvh.all.PDF(origin, direction)
}

// IsEmissive reports whether any contained surface emits
func (bvh *BVH) IsEmissive() bool {
	return bvh.all.IsEmissive()
}

// BVHStats describes the shape of a BVH
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	AvgDepth    float64 // Average leaf depth
	TotalShapes int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	if bvh.root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.root.collectStats(0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (n *bvhNode) collectStats(depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if n.surfaces != nil {
		stats.LeafNodes++
		stats.TotalShapes += len(n.surfaces)
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}
	n.left.collectStats(depth+1, stats)
	n.right.collectStats(depth+1, stats)
}
