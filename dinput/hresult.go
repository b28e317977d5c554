package dinput

import "fmt"

// HRESULT is a COM outcome code. Failing codes are used as errors; success
// codes never leave this package as errors.
type HRESULT uint32

const (
	DI_OK                 HRESULT = 0x00000000
	DI_NOTATTACHED        HRESULT = 0x00000001
	DIERR_DEVICENOTREG    HRESULT = 0x80040154
	DIERR_NOTFOUND        HRESULT = 0x80070002
	DIERR_INVALIDPARAM    HRESULT = 0x80070057
	DIERR_NOTINITIALIZED  HRESULT = 0x80070015
	DIERR_INPUTLOST       HRESULT = 0x8007001E
	DIERR_NOTACQUIRED     HRESULT = 0x8007000C
	DIERR_OTHERAPPHASPRIO HRESULT = 0x80070005
	DIERR_GENERIC         HRESULT = 0x80004005
	DIERR_NOINTERFACE     HRESULT = 0x80004002
	E_POINTER             HRESULT = 0x80004003
)

var names = map[HRESULT]string{
	DI_OK:                 "DI_OK",
	DI_NOTATTACHED:        "DI_NOTATTACHED",
	DIERR_DEVICENOTREG:    "DIERR_DEVICENOTREG",
	DIERR_NOTFOUND:        "DIERR_NOTFOUND",
	DIERR_INVALIDPARAM:    "DIERR_INVALIDPARAM",
	DIERR_NOTINITIALIZED:  "DIERR_NOTINITIALIZED",
	DIERR_INPUTLOST:       "DIERR_INPUTLOST",
	DIERR_NOTACQUIRED:     "DIERR_NOTACQUIRED",
	DIERR_OTHERAPPHASPRIO: "DIERR_OTHERAPPHASPRIO",
	DIERR_GENERIC:         "DIERR_GENERIC",
	DIERR_NOINTERFACE:     "DIERR_NOINTERFACE",
	E_POINTER:             "E_POINTER",
}

// Failed mirrors the FAILED() macro.
func (h HRESULT) Failed() bool {
	return int32(h) < 0
}

func (h HRESULT) Error() string {
	if n, ok := names[h]; ok {
		return fmt.Sprintf("%s (0x%08X)", n, uint32(h))
	}
	return fmt.Sprintf("HRESULT 0x%08X", uint32(h))
}

// FromHRESULT converts a raw return value into an error, nil for success.
func FromHRESULT(r uintptr) error {
	h := HRESULT(uint32(r))
	if !h.Failed() {
		return nil
	}
	return h
}
