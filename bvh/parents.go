package bvh

// Set the parent index of every node reachable from root. Leaf children are
// not descended into. The root keeps its NoParent sentinel.
func linkParents(nodes []Node, root uint32) {
	if nodes[root].IsLeaf() {
		return
	}

	stack := []uint32{root}
	for len(stack) > 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		left, right, _ := nodes[index].Children()
		nodes[left].Parent = index
		nodes[right].Parent = index

		if !nodes[left].IsLeaf() {
			stack = append(stack, left)
		}
		if !nodes[right].IsLeaf() {
			stack = append(stack, right)
		}
	}
}
