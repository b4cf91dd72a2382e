package hzb

// LevelStat summarizes a single tree level.
type LevelStat struct {
	Depth  int
	Nodes  int
	Leaves int

	// Largest region found on this level.
	MaxWidth, MaxHeight int
}

// Levels returns per-level node statistics ordered from the root down.
func (t *QuadTree) Levels() []LevelStat {
	stats := make([]LevelStat, 0, treeLevels(max(t.width, t.height))+1)
	for _, n := range t.nodes {
		depth := n.Code.Depth()
		for len(stats) <= depth {
			stats = append(stats, LevelStat{Depth: len(stats)})
		}

		st := &stats[depth]
		st.Nodes++
		if n.IsLeaf() {
			st.Leaves++
		}
		st.MaxWidth = max(st.MaxWidth, n.Width())
		st.MaxHeight = max(st.MaxHeight, n.Height())
	}
	return stats
}
