package network

import "sort"

// tarjanFrame is one activation record of the iterative Tarjan walk.
type tarjanFrame struct {
	node string
	next int // index of the next outgoing edge to inspect
}

// StronglyConnected returns the strongly connected components of the online
// directed graph (U→V for every online channel, V→U when the channel is Bi).
// Components are sorted internally; their order follows discovery from the
// sorted node list.
//
// Complexity: O(V + E), iterative so deep graphs cannot overflow the stack.
func (n *Network) StronglyConnected() [][]string {
	nodes := n.Nodes()
	index := make(map[string]int, len(nodes))
	low := make(map[string]int, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	stack := make([]string, 0, len(nodes))
	var comps [][]string
	counter := 0

	discover := func(v string) {
		index[v], low[v] = counter, counter
		counter++
		stack = append(stack, v)
		onStack[v] = true
	}

	for _, root := range nodes {
		if _, seen := index[root]; seen {
			continue
		}
		discover(root)
		calls := []tarjanFrame{{node: root}}

		for len(calls) > 0 {
			top := &calls[len(calls)-1]
			edges := n.adj[top.node]

			// 1) Advance over the remaining outgoing edges of top.
			if top.next < len(edges) {
				e := edges[top.next]
				top.next++
				if !n.channels[e.ChannelID].Online {
					continue
				}
				if _, seen := index[e.To]; !seen {
					discover(e.To)
					calls = append(calls, tarjanFrame{node: e.To})
				} else if onStack[e.To] && index[e.To] < low[top.node] {
					low[top.node] = index[e.To]
				}
				continue
			}

			// 2) top is finished: propagate low-link to the caller.
			v := top.node
			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				parent := calls[len(calls)-1].node
				if low[v] < low[parent] {
					low[parent] = low[v]
				}
			}

			// 3) v roots a component: pop it.
			if low[v] == index[v] {
				var comp []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				sort.Strings(comp)
				comps = append(comps, comp)
			}
		}
	}
	return comps
}

// Unconnected returns, in ascending order, the nodes outside the largest
// strongly connected component. Payments touching these nodes cannot be
// routed in both directions and are excluded from simulation sampling.
func (n *Network) Unconnected() []string {
	comps := n.StronglyConnected()
	if len(comps) == 0 {
		return nil
	}
	largest := 0
	for i, c := range comps {
		if len(c) > len(comps[largest]) {
			largest = i
		}
	}
	in := make(map[string]bool, len(comps[largest]))
	for _, id := range comps[largest] {
		in[id] = true
	}
	var out []string
	for _, id := range n.Nodes() {
		if !in[id] {
			out = append(out, id)
		}
	}
	return out
}
