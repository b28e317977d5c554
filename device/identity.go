package device

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/go-ole/go-ole"
	"github.com/google/uuid"
)

// Identity is the 128-bit instance token a subsystem assigns to a device.
// The zero value means "no device".
type Identity ole.GUID

// KeyboardIdentity is DirectInput's GUID_SysKeyboard.
var KeyboardIdentity = Identity{
	Data1: 0x6F1D2B61,
	Data2: 0xD5A0,
	Data3: 0x11CF,
	Data4: [8]byte{0xBF, 0xC7, 0x44, 0x45, 0x53, 0x54, 0x00, 0x00},
}

// legacyNamespace scopes synthetic identities of WinMM joystick slots.
var legacyNamespace = uuid.MustParse("5c0b6f52-3a8e-4f7e-9d4b-77696e6d6d00")

// LegacyIdentity returns a stable synthetic identity for a WinMM joystick
// slot. The same slot always maps to the same identity.
func LegacyIdentity(slot uint32) Identity {
	u := uuid.NewSHA1(legacyNamespace, []byte("winmm:"+strconv.FormatUint(uint64(slot), 10)))
	return Identity{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
		Data4: [8]byte(u[8:16]),
	}
}

// ParseIdentity accepts the GUID forms understood by ole.NewGUID, with or
// without braces.
func ParseIdentity(s string) (Identity, error) {
	g := ole.NewGUID(s)
	if g == nil {
		return Identity{}, fmt.Errorf("invalid device identity %q", s)
	}
	return Identity(*g), nil
}

// IsZero reports whether id is unset.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// GUID returns id as an ole.GUID.
func (id Identity) GUID() *ole.GUID {
	g := ole.GUID(id)
	return &g
}

func (id Identity) String() string {
	if id.IsZero() {
		return "none"
	}
	return id.GUID().String()
}

func (id Identity) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return []byte{}, nil
	}
	return []byte(id.GUID().String()), nil
}

func (id *Identity) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = Identity{}
		return nil
	}
	parsed, err := ParseIdentity(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
