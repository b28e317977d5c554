// Package override holds the operator's per-player controller assignment
// and decides which devices the host application may see, and in which
// order.
package override

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/enumerate"
	"github.com/Alia5/padorder/steaminput"
)

// DefaultRefreshInterval is how often auto refresh re-enumerates.
const DefaultRefreshInterval = time.Second

var (
	ErrInvalidPlayer    = errors.New("invalid player")
	ErrSteamInputActive = errors.New("steam input appears to be active; controller override is unavailable")
)

// Player is a selection slot.
type Player int

const (
	Player1 Player = iota
	Player2
)

// Players lists the selection slots in priority order.
var Players = []Player{Player1, Player2}

func (p Player) String() string {
	return fmt.Sprintf("player %d", int(p)+1)
}

func (p Player) valid() bool {
	return p == Player1 || p == Player2
}

// Enumerator produces canonical device sets.
type Enumerator interface {
	Enumerate() enumerate.Result
}

// SteamDetector evaluates the Steam Input heuristic.
type SteamDetector interface {
	Detect(devices []device.Record, hid []enumerate.HIDDevice) steaminput.Report
}

// Repair records a selection moved because its device disappeared.
type Repair struct {
	Player Player
	From   device.Identity
	To     device.Identity
}

// Event describes one applied refresh.
type Event struct {
	Generation uint64
	Devices    []device.Record
	Repairs    []Repair
	Steam      steaminput.Report
	// OverrideDisabled is set when this refresh switched the override off
	// because Steam Input became likely.
	OverrideDisabled bool
}

// Config tunes a Manager.
type Config struct {
	AutoRefresh     bool
	RefreshInterval time.Duration
}

// State is the operator-controlled part of a Manager.
type State struct {
	Override    bool
	AutoRefresh bool
	Player1     device.Identity
	Player2     device.Identity
}

// Manager is the single owner of the canonical device set and the player
// selections. It is safe for concurrent use; host threads call IsAllowed and
// Arrange while refreshes run.
type Manager struct {
	enum     Enumerator
	detector SteamDetector
	logger   *slog.Logger
	now      func() time.Time

	// refreshMu serialises enumeration passes.
	refreshMu sync.Mutex

	mu          sync.Mutex
	devices     []device.Record
	hid         []enumerate.HIDDevice
	selections  [2]device.Identity
	override    bool
	autoRefresh bool
	interval    time.Duration
	lastRefresh time.Time
	fingerprint device.Fingerprint
	steam       steaminput.Report
	generation  uint64

	pending atomic.Bool

	listenersMu sync.Mutex
	listeners   map[int]func(Event)
	nextID      int
}

// New constructs a Manager and performs the initial refresh. Both player
// slots start unset and the override starts off.
func New(enum Enumerator, detector SteamDetector, logger *slog.Logger, cfg Config) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	m := &Manager{
		enum:        enum,
		detector:    detector,
		logger:      logger,
		now:         time.Now,
		autoRefresh: cfg.AutoRefresh,
		interval:    cfg.RefreshInterval,
		listeners:   make(map[int]func(Event)),
	}
	m.Refresh()
	return m
}

// SetClock replaces the time source used by Tick.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// OnRefresh registers fn to run after every applied refresh, outside the
// manager's locks. The returned function unregisters it.
func (m *Manager) OnRefresh(fn func(Event)) func() {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.listenersMu.Lock()
		defer m.listenersMu.Unlock()
		delete(m.listeners, id)
	}
}

// Refresh re-enumerates, replaces the canonical set and repairs selections.
// It returns the enumerator's success flag; the device list is replaced
// either way.
func (m *Manager) Refresh() bool {
	m.refreshMu.Lock()
	m.pending.Store(false)
	res := m.enum.Enumerate()
	m.mu.Lock()
	ev := m.applyLocked(res)
	m.mu.Unlock()
	m.refreshMu.Unlock()

	m.emit(ev)
	return res.OK
}

// NotifyDeviceChange marks a refresh as pending. Any number of calls before
// the next Tick result in a single refresh.
func (m *Manager) NotifyDeviceChange() {
	m.pending.Store(true)
}

// RefreshPending reports whether a device change is waiting for Tick.
func (m *Manager) RefreshPending() bool {
	return m.pending.Load()
}

// Tick runs pending and periodic refreshes when auto refresh is on. A
// pending device change always refreshes; the periodic pass only applies
// the new set when its fingerprint changed. It reports whether a refresh
// was applied.
func (m *Manager) Tick() bool {
	m.mu.Lock()
	auto := m.autoRefresh
	due := m.now().Sub(m.lastRefresh) >= m.interval
	m.mu.Unlock()

	if !auto {
		return false
	}
	if m.pending.Load() {
		m.Refresh()
		return true
	}
	if !due {
		return false
	}

	m.refreshMu.Lock()
	res := m.enum.Enumerate()
	m.mu.Lock()
	if device.FingerprintOf(res.Devices) == m.fingerprint {
		m.lastRefresh = m.now()
		m.hid = res.HID
		m.mu.Unlock()
		m.refreshMu.Unlock()
		return false
	}
	ev := m.applyLocked(res)
	m.mu.Unlock()
	m.refreshMu.Unlock()

	m.emit(ev)
	return true
}

func (m *Manager) applyLocked(res enumerate.Result) Event {
	m.devices = device.Clone(res.Devices)
	m.hid = res.HID
	m.fingerprint = device.FingerprintOf(m.devices)
	m.lastRefresh = m.now()
	m.generation++

	ev := Event{Generation: m.generation}
	ev.Repairs = m.repairSelectionsLocked()

	prevLikely := m.steam.Likely
	if m.detector != nil {
		m.steam = m.detector.Detect(m.devices, m.hid)
	}
	ev.Steam = m.steam
	if m.steam.Likely != prevLikely {
		m.logger.Info("Steam Input detection changed", "likely", m.steam.Likely, "maskLength", m.steam.MaskLength)
	}
	if m.steam.Likely && m.override {
		m.override = false
		ev.OverrideDisabled = true
		m.logger.Warn("Steam Input appears to be active; controller override disabled")
	}

	for _, r := range ev.Repairs {
		m.logger.Info("Selection repaired", "player", r.Player.String(), "from", r.From.String(), "to", r.To.String())
	}
	ev.Devices = device.Clone(m.devices)
	return ev
}

// repairSelectionsLocked moves selections whose device vanished to the
// first canonical device, or unsets them when the set is empty.
func (m *Manager) repairSelectionsLocked() []Repair {
	var repairs []Repair
	for _, p := range Players {
		sel := m.selections[p]
		if sel.IsZero() || device.Contains(m.devices, sel) {
			continue
		}
		var to device.Identity
		if len(m.devices) > 0 {
			to = m.devices[0].ID
		}
		m.selections[p] = to
		repairs = append(repairs, Repair{Player: p, From: sel, To: to})
	}
	return repairs
}

func (m *Manager) emit(ev Event) {
	m.listenersMu.Lock()
	fns := make([]func(Event), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listenersMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// SetOverrideEnabled switches filtering and reordering. Enabling is refused
// while Steam Input is likely.
func (m *Manager) SetOverrideEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enabled && m.steam.Likely {
		return ErrSteamInputActive
	}
	m.override = enabled
	return nil
}

func (m *Manager) OverrideEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.override
}

// SetSelection binds a player slot. The identity is not validated here; the
// next refresh repairs it if needed.
func (m *Manager) SetSelection(p Player, id device.Identity) error {
	if !p.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, int(p))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selections[p] = id
	return nil
}

// ClearSelection unsets a player slot.
func (m *Manager) ClearSelection(p Player) error {
	return m.SetSelection(p, device.Identity{})
}

// Selection returns the bound identity, zero when unset or p is invalid.
func (m *Manager) Selection(p Player) device.Identity {
	if !p.valid() {
		return device.Identity{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selections[p]
}

func (m *Manager) SetAutoRefresh(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoRefresh = enabled
}

func (m *Manager) AutoRefresh() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoRefresh
}

// Devices returns a copy of the canonical set.
func (m *Manager) Devices() []device.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return device.Clone(m.devices)
}

// HID returns the HID census of the last refresh.
func (m *Manager) HID() []enumerate.HIDDevice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]enumerate.HIDDevice(nil), m.hid...)
}

func (m *Manager) SteamInputLikely() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steam.Likely
}

func (m *Manager) SteamReport() steaminput.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steam
}

// Generation counts applied refreshes.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// IsAllowed reports whether the host may see and create the device.
func (m *Manager) IsAllowed(id device.Identity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return allowedBy(id, m.override, m.selections[Player1], m.selections[Player2])
}

// Arrange returns the indices of ids to deliver to the host, in order.
func (m *Manager) Arrange(ids []device.Identity) []int {
	m.mu.Lock()
	enabled, p1, p2 := m.override, m.selections[Player1], m.selections[Player2]
	m.mu.Unlock()
	return Arrange(ids, enabled, p1, p2)
}

// State returns the operator-controlled settings.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Override:    m.override,
		AutoRefresh: m.autoRefresh,
		Player1:     m.selections[Player1],
		Player2:     m.selections[Player2],
	}
}

// ApplyState restores operator settings. Selections and auto refresh are
// always applied; the override is refused while Steam Input is likely.
func (m *Manager) ApplyState(s State) error {
	m.mu.Lock()
	m.selections[Player1] = s.Player1
	m.selections[Player2] = s.Player2
	m.autoRefresh = s.AutoRefresh
	m.mu.Unlock()
	return m.SetOverrideEnabled(s.Override)
}
