package ioctl

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Do executes the ioctl call with a pointer argument.
func Do(fd uintptr, command Command, ptr unsafe.Pointer) error {
	return Call(fd, uintptr(command), uintptr(ptr))
}

// Call does a plain ioctl system call.
func Call(fd, command, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, command, arg)
	if errno != 0 {
		return fmt.Errorf("%s failed: %w", Command(command), errno)
	}
	return nil
}
