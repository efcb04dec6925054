package resolve

import (
	"hash/fnv"
	"strconv"

	"github.com/adriftworks/adrift/internal/engine/board"
)

// discoveryIndex picks which of an object's remaining discoveries a scan,
// probe, or acquire reveals. The pick is a pure function of the object id and
// the turn number, so replaying the same turn reveals the same finding.
// It returns -1 when every discovery has been consumed.
func discoveryIndex(obj *board.Object, turn int) int {
	var open []int
	for i := range obj.Discoveries {
		if !obj.Acquired[i] {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return -1
	}
	h := fnv.New32a()
	h.Write([]byte(obj.ID))
	h.Write([]byte("#"))
	h.Write([]byte(strconv.Itoa(turn)))
	return open[int(h.Sum32())%len(open)]
}
