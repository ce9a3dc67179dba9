// Package ioctl encodes Linux ioctl request numbers and performs ioctl calls.
package ioctl

import "fmt"

// Mode is the IOCTL mode.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) String() string {
	var (
		mode = Mode(c >> 30 & 0x03)
		size = c >> 16 & 0x3fff
		cmd  = c & 0xffff
		str  string
	)
	if mode == None && size == 0 {
		// Legacy request numbers, such as the fbdev ones, carry no mode or size.
		return fmt.Sprintf("ioctl 0x%04x", uintptr(cmd))
	}
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) 0x%04x", str, size, uintptr(cmd))
}

// Encode an ioctl command.
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<30 | Command(size&0x3fff)<<16 | Command(cmd&0xffff)
}

// IOW encodes a write command like the _IOW macro from <asm-generic/ioctl.h>.
func IOW(magic, nr uint8, size uintptr) Command {
	return Encode(Write, uint16(size), uintptr(magic)<<8|uintptr(nr))
}
