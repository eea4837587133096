// Package pathfind computes shortest step sequences over an 8-connected
// boolean-blocked grid, as used by monster AI and by generation's corridor
// routing.
package pathfind

import (
	"container/list"

	"github.com/duskward/core/pkg/geometry"
	"github.com/duskward/core/pkg/mapparse"
)

// Run returns the shortest sequence of directions from src to dst on the
// 8-connected grid described by blocked (true = impassable). Ties are
// broken by preferring the lowest-index direction in geometry.AllDirs when
// expanding a node, matching the spec's tie-break rule. Returns an empty
// slice if dst is unreachable or src==dst.
func Run(src, dst geometry.Pos, blocked *mapparse.BoolGrid) []geometry.Dir {
	if src.Eq(dst) {
		return nil
	}
	if blocked.At(dst) {
		return nil
	}

	type node struct {
		pos  geometry.Pos
		from geometry.Pos
		dir  geometry.Dir
		has  bool
	}

	visited := map[geometry.Pos]node{src: {pos: src}}
	queue := list.New()
	queue.PushBack(src)

	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(geometry.Pos)
		if front.Eq(dst) {
			break
		}
		for _, d := range geometry.AllDirs {
			next := front.Add(geometry.Offsets[d])
			if blocked.At(next) {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = node{pos: next, from: front, dir: d, has: true}
			queue.PushBack(next)
		}
	}

	end, ok := visited[dst]
	if !ok {
		return nil
	}

	var steps []geometry.Dir
	cur := end
	for cur.has {
		steps = append([]geometry.Dir{cur.dir}, steps...)
		cur = visited[cur.from]
	}
	return steps
}

// Distance returns the BFS step count from src to dst, or -1 if unreachable.
func Distance(src, dst geometry.Pos, blocked *mapparse.BoolGrid) int {
	if src.Eq(dst) {
		return 0
	}
	steps := Run(src, dst, blocked)
	if steps == nil {
		return -1
	}
	return len(steps)
}
