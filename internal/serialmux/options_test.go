package serialmux

import (
	"testing"

	"go.bug.st/serial"
)

func TestPortOptionsNormalizeDefaults(t *testing.T) {
	opts, err := PortOptions{}.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if opts.BaudRate != 19200 {
		t.Errorf("expected default baud 19200, got %d", opts.BaudRate)
	}
	if opts.DataBits != 8 {
		t.Errorf("expected default data bits 8, got %d", opts.DataBits)
	}
	if opts.StopBits != 1 {
		t.Errorf("expected default stop bits 1, got %d", opts.StopBits)
	}
	if opts.Parity != "N" {
		t.Errorf("expected default parity N, got %q", opts.Parity)
	}
}

func TestPortOptionsNormalizeParityNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"n", "N"}, {"none", "N"}, {"N", "N"},
		{"e", "E"}, {"EVEN", "E"},
		{"odd", "O"}, {"O", "O"},
	}

	for _, tt := range tests {
		opts, err := PortOptions{Parity: tt.in}.Normalize()
		if err != nil {
			t.Errorf("Normalize(%q) failed: %v", tt.in, err)
			continue
		}
		if opts.Parity != tt.want {
			t.Errorf("Normalize(%q) parity = %q, want %q", tt.in, opts.Parity, tt.want)
		}
	}
}

func TestPortOptionsNormalizeInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts PortOptions
	}{
		{"data bits too small", PortOptions{DataBits: 4}},
		{"data bits too large", PortOptions{DataBits: 9}},
		{"bad stop bits", PortOptions{StopBits: 3}},
		{"bad parity", PortOptions{Parity: "mark"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.opts.Normalize(); err == nil {
				t.Errorf("expected error for %+v", tt.opts)
			}
		})
	}
}

func TestPortOptionsEqual(t *testing.T) {
	a := PortOptions{BaudRate: 19200, Parity: "none"}
	b := PortOptions{BaudRate: 19200, DataBits: 8, StopBits: 1, Parity: "N"}

	if !a.Equal(b) {
		t.Error("options differing only in defaults and parity spelling should be equal")
	}

	c := PortOptions{BaudRate: 9600}
	if a.Equal(c) {
		t.Error("different baud rates should not be equal")
	}
}

func TestPortOptionsSerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 19200, Parity: "even", StopBits: 2}.SerialMode()
	if err != nil {
		t.Fatalf("SerialMode failed: %v", err)
	}

	if mode.BaudRate != 19200 {
		t.Errorf("expected baud 19200, got %d", mode.BaudRate)
	}
	if mode.Parity != serial.EvenParity {
		t.Errorf("expected even parity, got %v", mode.Parity)
	}
	if mode.StopBits != serial.TwoStopBits {
		t.Errorf("expected 2 stop bits, got %v", mode.StopBits)
	}
}

func TestPortOptionsSerialModeOneStopBit(t *testing.T) {
	// The default 19200 8N1 framing. OneStopBit is the zero value of
	// serial.StopBits, not 1, so a raw cast of the option would open
	// the port with 1.5 stop bits.
	mode, err := PortOptions{}.SerialMode()
	if err != nil {
		t.Fatalf("SerialMode failed: %v", err)
	}

	if mode.StopBits != serial.OneStopBit {
		t.Errorf("expected one stop bit, got %v", mode.StopBits)
	}
	if mode.BaudRate != 19200 {
		t.Errorf("expected baud 19200, got %d", mode.BaudRate)
	}
	if mode.DataBits != 8 {
		t.Errorf("expected 8 data bits, got %d", mode.DataBits)
	}
	if mode.Parity != serial.NoParity {
		t.Errorf("expected no parity, got %v", mode.Parity)
	}
}

func TestPortOptionsSerialModeInvalid(t *testing.T) {
	if _, err := (PortOptions{DataBits: 3}).SerialMode(); err == nil {
		t.Error("expected error for invalid options")
	}
}
