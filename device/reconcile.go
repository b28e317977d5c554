package device

// Reconcile merges devices reported by the modern API with those reported by
// the legacy joystick API.
//
// Modern records keep their identity. The first unconsumed legacy record
// whose name matches (ASCII case-insensitive, equal byte length) lends its
// numeric id (and its vendor/product pair when the modern API had none) to
// the modern record. Names are the only matching key: two identically named
// pads resolve in list order, differently named ones never merge. Legacy
// records nobody claimed are appended as separate devices.
//
// The inputs are not modified.
func Reconcile(modern, legacy []Record) []Record {
	out := Clone(modern)
	consumed := make([]bool, len(legacy))

	for i := range out {
		for j := range legacy {
			if consumed[j] {
				continue
			}
			if namesEqualFold(out[i].Name, legacy[j].Name) {
				attachLegacy(&out[i], legacy[j])
				consumed[j] = true
				break
			}
		}
	}

	for j := range legacy {
		if consumed[j] {
			continue
		}
		r := Clone(legacy[j : j+1])[0]
		r.Legacy = true
		out = append(out, r)
	}
	return out
}

func attachLegacy(r *Record, legacy Record) {
	if legacy.LegacyID != nil {
		id := *legacy.LegacyID
		r.LegacyID = &id
	}
	if r.VidPid == nil && legacy.VidPid != nil {
		vp := *legacy.VidPid
		r.VidPid = &vp
	}
}

func namesEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
