package override

import "github.com/Alia5/padorder/device"

// Reorder returns the indices of ids with the first occurrence of first
// moved to the front, followed by the first occurrence of second. All other
// entries keep their relative order. Zero identities are ignored.
func Reorder(ids []device.Identity, first, second device.Identity) []int {
	consumed := make([]bool, len(ids))
	out := make([]int, 0, len(ids))

	take := func(want device.Identity) {
		if want.IsZero() {
			return
		}
		for i, id := range ids {
			if !consumed[i] && id == want {
				consumed[i] = true
				out = append(out, i)
				return
			}
		}
	}
	take(first)
	take(second)

	for i := range ids {
		if !consumed[i] {
			out = append(out, i)
		}
	}
	return out
}

// Arrange applies the override to a device list. With the override off every
// device is delivered in its natural order. With it on, only the devices
// bound to a player survive, player 1's first.
func Arrange(ids []device.Identity, enabled bool, p1, p2 device.Identity) []int {
	if !enabled {
		out := make([]int, len(ids))
		for i := range ids {
			out[i] = i
		}
		return out
	}

	allowed := make([]device.Identity, 0, len(ids))
	index := make([]int, 0, len(ids))
	for i, id := range ids {
		if allowedBy(id, true, p1, p2) {
			allowed = append(allowed, id)
			index = append(index, i)
		}
	}

	order := Reorder(allowed, p1, p2)
	out := make([]int, len(order))
	for i, j := range order {
		out[i] = index[j]
	}
	return out
}

func allowedBy(id device.Identity, enabled bool, p1, p2 device.Identity) bool {
	if !enabled {
		return true
	}
	if id.IsZero() {
		return false
	}
	return id == p1 || id == p2
}

// Select returns items picked by indices, in that order.
func Select[T any](items []T, indices []int) []T {
	out := make([]T, 0, len(indices))
	for _, i := range indices {
		out = append(out, items[i])
	}
	return out
}
