//go:build linux

package motion

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/offlinefirst/sensmatch/pkg/permissions"
)

const (
	defaultDeviceName = "sensmatch virtual pointer"

	// ioctl requests from linux/uinput.h.
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	evSyn     = 0x00
	evKey     = 0x01
	evRel     = 0x02
	relX      = 0x00
	relY      = 0x01
	synReport = 0x00
	btnLeft   = 0x110
	busUSB    = 0x03
)

// inputEvent mirrors struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputUserDev mirrors the legacy struct uinput_user_dev written before UI_DEV_CREATE.
type uinputUserDev struct {
	Name         [80]byte
	ID           inputID
	FFEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

type uinputSink struct {
	mu      sync.Mutex
	w       io.Writer
	release func() error
	closed  bool
}

func openUinput(opts Options) (Sink, error) {
	path := opts.DevicePath
	if path == "" {
		path = permissions.UinputPath
	}
	name := opts.DeviceName
	if name == "" {
		name = defaultDeviceName
	}

	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := configureDevice(fd, name); err != nil {
		unix.Close(fd)
		return nil, err
	}

	file := os.NewFile(uintptr(fd), path)
	release := func() error {
		destroyErr := unix.IoctlSetInt(fd, uiDevDestroy, 0)
		closeErr := file.Close()
		if destroyErr != nil {
			return fmt.Errorf("destroy uinput device: %w", destroyErr)
		}
		return closeErr
	}
	if opts.Logger != nil {
		opts.Logger.Info("uinput pointer created", "path", path, "name", name)
	}
	return newUinputSink(file, release), nil
}

func configureDevice(fd int, name string) error {
	bits := []struct {
		req   uint
		value int
		label string
	}{
		{uiSetEvBit, evKey, "EV_KEY"},
		{uiSetKeyBit, btnLeft, "BTN_LEFT"},
		{uiSetEvBit, evRel, "EV_REL"},
		{uiSetRelBit, relX, "REL_X"},
		{uiSetRelBit, relY, "REL_Y"},
	}
	for _, b := range bits {
		if err := unix.IoctlSetInt(fd, b.req, b.value); err != nil {
			return fmt.Errorf("enable %s: %w", b.label, err)
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:len(dev.Name)-1], name)
	dev.ID = inputID{Bustype: busUSB, Vendor: 0x1209, Product: 0x0360, Version: 1}
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.NativeEndian, &dev); err != nil {
		return fmt.Errorf("encode uinput device: %w", err)
	}
	if _, err := unix.Write(fd, buf.Bytes()); err != nil {
		return fmt.Errorf("write uinput device: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("create uinput device: %w", err)
	}
	return nil
}

func newUinputSink(w io.Writer, release func() error) *uinputSink {
	return &uinputSink{w: w, release: release}
}

func (s *uinputSink) Emit(delta int) error {
	return s.write("emit", evRel, relX, int32(delta))
}

func (s *uinputSink) Flush() error {
	return s.write("flush", evSyn, synReport, 0)
}

func (s *uinputSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.release == nil {
		return nil
	}
	return s.release()
}

func (s *uinputSink) write(op string, typ, code uint16, value int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return injectionError(op, ErrClosed)
	}
	buf := &bytes.Buffer{}
	ev := inputEvent{Type: typ, Code: code, Value: value}
	if err := binary.Write(buf, binary.NativeEndian, &ev); err != nil {
		return injectionError(op, err)
	}
	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return injectionError(op, err)
	}
	return nil
}
