package fractal

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// MessageType tags a host to worker message.
type MessageType string

const (
	MsgInit               MessageType = "init"
	MsgRender             MessageType = "render"
	MsgSetFractalFunction MessageType = "setFractalFunction"
	MsgZoom               MessageType = "zoom"
	MsgMoveCenter         MessageType = "moveCenter"
)

// Allowed zoom factors.
const (
	ZoomIn  = 2.0
	ZoomOut = 0.5
)

// MaxFrameBytes bounds the RGBA size of a canvas, and so of every frame.
const MaxFrameBytes = 128 << 20

var ErrBadMessage = errors.New("bad message")

// InitPayload carries the canvas size and the default view.
type InitPayload struct {
	CanvasSize Vector
	View       ViewState
}

// Message is a host to worker message. Only the field matching Type is used.
type Message struct {
	Type  MessageType
	Init  InitPayload
	Set   SetType
	Zoom  float64
	Delta Vector
}

func InitMessage(canvasSize Vector, view ViewState) Message {
	return Message{Type: MsgInit, Init: InitPayload{CanvasSize: canvasSize, View: view}}
}

func RenderMessage() Message {
	return Message{Type: MsgRender}
}

func SetFractalFunctionMessage(s SetType) Message {
	return Message{Type: MsgSetFractalFunction, Set: s}
}

func ZoomMessage(factor float64) Message {
	return Message{Type: MsgZoom, Zoom: factor}
}

func MoveCenterMessage(delta Vector) Message {
	return Message{Type: MsgMoveCenter, Delta: delta}
}

// Validate checks the payload of m against its type.
func (m Message) Validate() error {
	switch m.Type {
	case MsgInit:
		if err := validCanvasSize(m.Init.CanvasSize); err != nil {
			return err
		}
		if err := m.Init.View.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrBadMessage, err)
		}
	case MsgRender:
	case MsgSetFractalFunction:
		if m.Set != MandelbrotSet && m.Set != JuliaSet {
			return fmt.Errorf("%w: set %v", ErrBadMessage, m.Set)
		}
	case MsgZoom:
		if m.Zoom != ZoomIn && m.Zoom != ZoomOut {
			return fmt.Errorf("%w: zoom factor %v", ErrBadMessage, m.Zoom)
		}
	case MsgMoveCenter:
		if !Finite(m.Delta) {
			return fmt.Errorf("%w: delta %v", ErrBadMessage, m.Delta)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrBadMessage, m.Type)
	}
	return nil
}

// validCanvasSize accepts whole pixel sizes whose RGBA buffer fits MaxFrameBytes.
func validCanvasSize(size Vector) error {
	w, h := size.X, size.Y
	if !(w >= 1) || !(h >= 1) || w != math.Trunc(w) || h != math.Trunc(h) || 4*w*h > MaxFrameBytes {
		return fmt.Errorf("%w: canvas size %v", ErrBadMessage, size)
	}
	return nil
}

type wireMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wireInit struct {
	CanvasSize        pair    `json:"canvasSize"`
	CoordinatesCenter pair    `json:"coordinatesCenter"`
	MathUnitSize      float64 `json:"mathUnitSize"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	var payload any
	switch m.Type {
	case MsgInit:
		payload = wireInit{
			CanvasSize:        pairOf(m.Init.CanvasSize),
			CoordinatesCenter: pairOf(m.Init.View.Center),
			MathUnitSize:      m.Init.View.UnitSize,
		}
	case MsgSetFractalFunction:
		payload = m.Set.String()
	case MsgZoom:
		payload = m.Zoom
	case MsgMoveCenter:
		payload = pairOf(m.Delta)
	}

	w := wireMessage{Type: m.Type}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		w.Payload = raw
	}
	return json.Marshal(w)
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrBadMessage, err)
	}

	out := Message{Type: w.Type}
	var err error
	switch w.Type {
	case MsgInit:
		var p wireInit
		if err = json.Unmarshal(w.Payload, &p); err == nil {
			out.Init = InitPayload{
				CanvasSize: p.CanvasSize.vector(),
				View:       ViewState{Center: p.CoordinatesCenter.vector(), UnitSize: p.MathUnitSize},
			}
		}
	case MsgSetFractalFunction:
		var name string
		if err = json.Unmarshal(w.Payload, &name); err == nil {
			out.Set, err = ParseSetType(name)
		}
	case MsgZoom:
		err = json.Unmarshal(w.Payload, &out.Zoom)
	case MsgMoveCenter:
		var p pair
		if err = json.Unmarshal(w.Payload, &p); err == nil {
			out.Delta = p.vector()
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %s payload: %w", ErrBadMessage, w.Type, err)
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*m = out
	return nil
}

// Frame is a full bitmap posted by the worker after each render pass.
type Frame struct {
	Width, Height int
	// Step is the block size of the pass that produced the frame; 1 means converged.
	Step int
	// Pix holds Width*Height RGBA pixels, row major.
	Pix []byte
}

// Final reports whether the frame is at full resolution.
func (f Frame) Final() bool {
	return f.Step <= 1
}
