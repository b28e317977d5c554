package device

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint summarises a canonical set. Two sets with the same devices in
// the same order share a fingerprint.
type Fingerprint [blake2b.Size256]byte

// FingerprintOf hashes identities, names, the keyboard flag and legacy ids.
func FingerprintOf(records []Record) Fingerprint {
	h, _ := blake2b.New256(nil)
	var buf [4]byte
	for _, r := range records {
		binary.LittleEndian.PutUint32(buf[:], r.ID.Data1)
		h.Write(buf[:])
		binary.LittleEndian.PutUint16(buf[:2], r.ID.Data2)
		binary.LittleEndian.PutUint16(buf[2:], r.ID.Data3)
		h.Write(buf[:])
		h.Write(r.ID.Data4[:])

		binary.LittleEndian.PutUint32(buf[:], uint32(len(r.Name)))
		h.Write(buf[:])
		h.Write([]byte(r.Name))

		flags := byte(0)
		if r.Keyboard {
			flags |= 1
		}
		if r.Legacy {
			flags |= 2
		}
		if r.LegacyID != nil {
			flags |= 4
			binary.LittleEndian.PutUint32(buf[:], *r.LegacyID)
		} else {
			buf = [4]byte{}
		}
		h.Write([]byte{flags})
		h.Write(buf[:])
	}
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}
