// Package device describes physical input devices as seen through the
// operating system's input subsystems and merges them into one canonical set.
package device

import (
	"fmt"
	"strings"
)

// VidPid is a USB vendor/product id pair.
type VidPid struct {
	Vendor  uint16 `json:"vendor"`
	Product uint16 `json:"product"`
}

func (v VidPid) String() string {
	return fmt.Sprintf("%04x:%04x", v.Vendor, v.Product)
}

// Record is one input device. Records are never mutated once they are part
// of a canonical set; a refresh replaces the whole list.
type Record struct {
	ID   Identity `json:"id"`
	Name string   `json:"name"`
	// Keyboard marks the synthetic system keyboard entry.
	Keyboard bool `json:"keyboard,omitempty"`
	// Legacy is set for devices only the legacy joystick API could see.
	Legacy   bool    `json:"legacy,omitempty"`
	LegacyID *uint32 `json:"legacyId,omitempty"`
	VidPid   *VidPid `json:"vidPid,omitempty"`
}

// KeyboardRecord returns the synthetic keyboard entry that heads every
// canonical set.
func KeyboardRecord() Record {
	return Record{ID: KeyboardIdentity, Name: "Keyboard", Keyboard: true}
}

func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	b.WriteString(" ")
	b.WriteString(r.ID.String())
	if r.LegacyID != nil {
		fmt.Fprintf(&b, " legacy=%d", *r.LegacyID)
	}
	if r.VidPid != nil {
		b.WriteString(" ")
		b.WriteString(r.VidPid.String())
	}
	return b.String()
}

// Contains reports whether id is part of records.
func Contains(records []Record, id Identity) bool {
	return IndexOf(records, id) >= 0
}

// IndexOf returns the position of id in records or -1.
func IndexOf(records []Record, id Identity) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the record with the given identity.
func Find(records []Record, id Identity) (Record, bool) {
	if i := IndexOf(records, id); i >= 0 {
		return records[i], true
	}
	return Record{}, false
}

// CountControllers returns the number of non-keyboard records.
func CountControllers(records []Record) int {
	n := 0
	for _, r := range records {
		if !r.Keyboard {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers can hand out lists without sharing
// the optional fields.
func Clone(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		if r.LegacyID != nil {
			id := *r.LegacyID
			r.LegacyID = &id
		}
		if r.VidPid != nil {
			vp := *r.VidPid
			r.VidPid = &vp
		}
		out[i] = r
	}
	return out
}
