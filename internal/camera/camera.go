// Package camera manages a live capture device. Streams are owned by a
// Session which releases them exactly once when the camera is switched off.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrNoDevice = errors.New("camera: no capture device available")
	ErrOff      = errors.New("camera: camera is off")
)

type Device interface {
	Open(ctx context.Context) (Stream, error)
}

type Stream interface {
	Frame() (image.Image, error)
	Close() error
}

// Unavailable is the device used when no platform capture backend is built in.
type Unavailable struct{}

func (Unavailable) Open(context.Context) (Stream, error) { return nil, ErrNoDevice }

type Session struct {
	dev Device
	log *zap.Logger

	mu     sync.Mutex
	stream Stream
}

func NewSession(dev Device, log *zap.Logger) *Session {
	if dev == nil {
		dev = Unavailable{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{dev: dev, log: log}
}

func (s *Session) On() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// Toggle opens the device when off and releases the stream when on. It
// returns the new state. An open failure leaves the camera off.
func (s *Session) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		return false, s.closeLocked()
	}
	st, err := s.dev.Open(ctx)
	if err != nil {
		s.log.Warn("camera open failed", zap.Error(err))
		return false, fmt.Errorf("error accessing webcam: %w", err)
	}
	s.stream = st
	s.log.Info("camera on")
	return true, nil
}

// Capture grabs the current frame.
func (s *Session) Capture() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil, ErrOff
	}
	img, err := s.stream.Frame()
	if err != nil {
		return nil, fmt.Errorf("camera: capture: %w", err)
	}
	return img, nil
}

// Close releases the stream if one is open.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return nil
	}
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	st := s.stream
	s.stream = nil
	s.log.Info("camera off")
	return st.Close()
}
