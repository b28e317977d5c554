package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/enumerate"
	"github.com/Alia5/padorder/override"
	"github.com/Alia5/padorder/steaminput"
)

// view is what the devices command shows.
type view struct {
	Devices     []device.Record       `json:"devices"`
	Override    bool                  `json:"override"`
	AutoRefresh bool                  `json:"autoRefresh"`
	Player1     device.Identity       `json:"player1"`
	Player2     device.Identity       `json:"player2"`
	Steam       steaminput.Report     `json:"steam"`
	HID         []enumerate.HIDDevice `json:"hid,omitempty"`
}

func newView(m *override.Manager) view {
	s := m.State()
	return view{
		Devices:     m.Devices(),
		Override:    s.Override,
		AutoRefresh: s.AutoRefresh,
		Player1:     s.Player1,
		Player2:     s.Player2,
		Steam:       m.SteamReport(),
		HID:         m.HID(),
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	playerStyle = cellStyle.Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (v view) player(id device.Identity) string {
	switch {
	case id.IsZero():
		return ""
	case id == v.Player1 && id == v.Player2:
		return "P1+P2"
	case id == v.Player1:
		return "P1"
	case id == v.Player2:
		return "P2"
	}
	return ""
}

func source(r device.Record) string {
	switch {
	case r.Keyboard:
		return "system"
	case r.Legacy:
		return "winmm"
	case r.LegacyID != nil:
		return "dinput+winmm"
	}
	return "dinput"
}

func vidpid(r device.Record) string {
	if r.VidPid == nil {
		return "-"
	}
	return r.VidPid.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func renderJSON(w io.Writer, v view) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderPlain(w io.Writer, v view) {
	for i, r := range v.Devices {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i, v.player(r.ID), r.Name, r.ID.String(), source(r), vidpid(r))
	}
	fmt.Fprintf(w, "override=%s autorefresh=%s steam_input=%t\n", onOff(v.Override), onOff(v.AutoRefresh), v.Steam.Likely)
}

func renderTable(w io.Writer, v view) {
	rows := make([][]string, 0, len(v.Devices))
	for i, r := range v.Devices {
		rows = append(rows, []string{strconv.Itoa(i), v.player(r.ID), r.Name, r.ID.String(), source(r), vidpid(r)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "Player", "Name", "Identity", "Source", "VID:PID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && row >= 0 && row < len(rows) && rows[row][1] != "" {
				return playerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "Override: %s   Auto refresh: %s\n", onOff(v.Override), onOff(v.AutoRefresh))
	if v.Steam.Likely {
		fmt.Fprintln(w, warnStyle.Render("Steam Input appears to be active; controller override is disabled."))
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("HID game controllers: %d   ignore mask: %d/%d bytes",
		len(v.HID), v.Steam.MaskLength, v.Steam.Threshold)))
}

func render(w io.Writer, v view, asJSON bool) error {
	switch {
	case asJSON:
		return renderJSON(w, v)
	case isTerminal(w):
		renderTable(w, v)
	default:
		renderPlain(w, v)
	}
	return nil
}
