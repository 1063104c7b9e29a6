// internal/dedupe/detector.go
package dedupe

import (
	"context"

	"github.com/tohyewhong/qagredo-local/internal/embedding"
)

// Detector decides whether candidate questions duplicate ones already
// accepted, using embedding cosine similarity with a Jaccard fallback
// when the embedding service is down.
type Detector struct {
	embedder  embedding.Client
	threshold float64
}

// NewDetector builds a Detector with the given duplicate-similarity
// threshold.
func NewDetector(embedder embedding.Client, threshold float64) *Detector {
	return &Detector{embedder: embedder, threshold: threshold}
}

// IsDuplicate reports whether candidate duplicates any question in
// existing. Exact matches after normalization short-circuit without an
// embedding call.
func (d *Detector) IsDuplicate(ctx context.Context, candidate string, existing []string) bool {
	normalized := normalizeText(candidate)
	for _, q := range existing {
		if normalizeText(q) == normalized {
			return true
		}
	}
	for _, q := range existing {
		if d.similar(ctx, candidate, q) {
			return true
		}
	}
	return false
}

// similar compares one pair, preferring cosine similarity and falling
// back to Jaccard word overlap when embeddings are unavailable.
func (d *Detector) similar(ctx context.Context, a, b string) bool {
	vecA, errA := d.embedder.Embed(ctx, a)
	vecB, errB := d.embedder.Embed(ctx, b)
	if errA != nil || errB != nil {
		return jaccard(a, b) >= d.threshold
	}
	sim := embedding.Cosine(vecA, vecB)
	if sim < 0 {
		sim = 0
	}
	return sim >= d.threshold
}

// FilterNew returns the members of candidates that duplicate neither
// the existing set nor each other. Within-batch duplicates are
// clustered by union-find and each cluster keeps its first member.
func (d *Detector) FilterNew(ctx context.Context, existing, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	all := make([]string, 0, len(existing)+len(candidates))
	all = append(all, existing...)
	all = append(all, candidates...)

	parent := make([]int, len(all))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(x, y int) {
		rx, ry := find(x), find(y)
		if rx != ry {
			parent[ry] = rx
		}
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if normalizeText(all[i]) == normalizeText(all[j]) || d.similar(ctx, all[i], all[j]) {
				union(i, j)
			}
		}
	}

	// Each cluster keeps its lowest index. A cluster whose lowest
	// index falls in the existing set keeps nothing: every candidate
	// in it duplicates an accepted question.
	first := make(map[int]int)
	for i := range all {
		root := find(i)
		if _, seen := first[root]; !seen {
			first[root] = i
		}
	}

	var kept []string
	for i := len(existing); i < len(all); i++ {
		if first[find(i)] == i {
			kept = append(kept, all[i])
		}
	}
	return kept
}
