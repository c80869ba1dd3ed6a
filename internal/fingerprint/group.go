package fingerprint

import "fmt"

// NamedImage pairs a filename with raw image bytes for grouping.
type NamedImage struct {
	Name string
	Data []byte
}

// GroupNearDuplicates clusters images whose perceptual hashes are within
// threshold of each other. Similarity is transitive here: if A~B and B~C,
// all three end up in one group. Only groups with at least two members are
// returned; a file in no group is unique. Group order follows the first
// appearance of each group's earliest member, names within a group keep
// input order.
func GroupNearDuplicates(images []NamedImage, threshold int) ([][]string, error) {
	hashes := make([]*Hashes, len(images))
	for i, img := range images {
		h, err := Compute(img.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", img.Name, err)
		}
		hashes[i] = h
	}

	// Union-find over pairwise similarity.
	parent := make([]int, len(images))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < len(images); i++ {
		for j := i + 1; j < len(images); j++ {
			if Similar(hashes[i], hashes[j], threshold) {
				union(i, j)
			}
		}
	}

	// Collect members per root in input order.
	members := make(map[int][]string)
	var roots []int
	for i, img := range images {
		root := find(i)
		if _, ok := members[root]; !ok {
			roots = append(roots, root)
		}
		members[root] = append(members[root], img.Name)
	}

	var groups [][]string
	for _, root := range roots {
		if len(members[root]) >= 2 {
			groups = append(groups, members[root])
		}
	}
	return groups, nil
}
