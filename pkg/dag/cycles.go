package dag

// BreakCycles removes the back edges found by a depth-first search and
// returns how many were removed. Search starts from the current sources, then
// from any node still unvisited (members of source-less cycles) in insertion
// order, so the result is deterministic.
func (d *DAG) BreakCycles() int {
	back := d.backEdges()
	for _, e := range back {
		d.RemoveEdge(e[0], e[1])
	}
	return len(back)
}

func (d *DAG) backEdges() [][2]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range d.outgoing[node] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	for _, n := range d.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
		}
	}
	return backEdges
}
