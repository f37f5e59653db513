package hardware

import (
	"fmt"
	"os"
	"path/filepath"
)

// Bootloader describes the detected bootloader.
type Bootloader struct {
	Type       string `json:"type"`
	ConfigPath string `json:"config_path,omitempty"`
	Extra      string `json:"extra,omitempty"`
}

// bootloaderMarkers are checked in order; the first existing file wins.
var bootloaderMarkers = []Bootloader{
	{Type: "GRUB", ConfigPath: "/boot/grub/grub.cfg"},
	{Type: "systemd-boot", ConfigPath: "/boot/loader/loader.conf"},
	{Type: "rEFInd", ConfigPath: "/boot/efi/EFI/refind/refind.conf"},
	{Type: "Syslinux", ConfigPath: "/boot/syslinux/syslinux.cfg"},
	{Type: "LILO", ConfigPath: "/etc/lilo.conf"},
	{Type: "U-Boot", ConfigPath: "/boot/boot.scr", Extra: "U-Boot script detected. Kernel parsing not implemented."},
}

// DetectBootloader checks the marker files under root ("/" on a live
// system). Paths in the result are relative to root.
func DetectBootloader(root string) Bootloader {
	for _, m := range bootloaderMarkers {
		if _, err := os.Stat(filepath.Join(root, m.ConfigPath)); err == nil {
			return m
		}
	}
	return Bootloader{Type: Unknown}
}

// Summary is the short form used in the system report.
func (b Bootloader) Summary() string {
	s := "Bootloader: " + b.Type
	if b.ConfigPath != "" {
		s += fmt.Sprintf(" (Config: %s)", b.ConfigPath)
	}
	if b.Extra != "" {
		s += fmt.Sprintf(" [%s]", b.Extra)
	}
	return s
}
