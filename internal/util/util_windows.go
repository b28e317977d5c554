//go:build windows

package util

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// ErrUnsupported is returned for Windows-only helpers.
var ErrUnsupported = errors.New("only available on Windows")

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
)

// IsRunFromGUI reports whether the binary was started by double click,
// in which case the console closes as soon as the process exits.
func IsRunFromGUI() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	hasConsole := hwnd != 0

	parentName := getParentProcessName()
	isCliParent := isCliProcess(parentName)

	slog.Debug("Parent Process Info", "parentName", parentName, "hasConsole", hasConsole, "isCliParent", isCliParent)

	if !hasConsole {
		return true
	}
	if isCliParent {
		return false
	}
	return strings.EqualFold(parentName, "explorer.exe")
}

// WaitForEnter keeps a double-clicked console open until Enter is pressed.
func WaitForEnter() {
	fmt.Fprint(os.Stderr, "Press Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}

// OpenGameControllers opens joy.cpl, the system game controller settings.
func OpenGameControllers() error {
	verb, _ := windows.UTF16PtrFromString("open")
	file, _ := windows.UTF16PtrFromString("control.exe")
	args, _ := windows.UTF16PtrFromString("joy.cpl")
	if !win.ShellExecute(0, verb, file, args, nil, win.SW_SHOWNORMAL) {
		return fmt.Errorf("ShellExecute joy.cpl: %w", windows.GetLastError())
	}
	return nil
}

func getParentProcessName() string {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snapshot)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))

	names := map[uint32]string{}
	parents := map[uint32]uint32{}
	for err = windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		names[pe.ProcessID] = windows.UTF16ToString(pe.ExeFile[:])
		parents[pe.ProcessID] = pe.ParentProcessID
	}

	parent, ok := parents[uint32(os.Getpid())]
	if !ok || parent == 0 {
		return ""
	}
	return names[parent]
}

func isCliProcess(name string) bool {
	switch strings.ToLower(name) {
	case "cmd.exe", "powershell.exe", "pwsh.exe", "wt.exe", "conhost.exe", "windowsterminal.exe", "bash.exe":
		return true
	}
	return false
}
