package ioctl

import "testing"

func TestEncode(t *testing.T) {
	tests := []struct {
		Name string
		Cmd  Command
		Want Command
	}{
		{"msmfb-display-commit", IOW('m', 164, 184), 0x40b86da4},
		{"eviocgabs-x", Encode(Read, 24, 'E'<<8|0x40), 0x80184540},
		{"size-overflow", Encode(Write, 0xffff, 0x6da4), 0x7fff6da4},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if test.Cmd != test.Want {
				it.Errorf("expected %#08x, got %#08x", uintptr(test.Want), uintptr(test.Cmd))
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		Cmd  Command
		Want string
	}{
		{0x4602, "ioctl 0x4602"},
		{IOW('m', 164, 184), "ioctl write (184 bytes) 0x6da4"},
		{Encode(Read, 24, 'E'<<8|0x40), "ioctl read (24 bytes) 0x4540"},
	}
	for _, test := range tests {
		if v := test.Cmd.String(); v != test.Want {
			t.Errorf("expected %q, got %q", test.Want, v)
		}
	}
}
