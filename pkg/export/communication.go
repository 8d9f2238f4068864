// Websocket channel sink
//
// Copyright (C) 2026  Go Migration Team
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package export

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"printplan-go/pkg/errors"
	"printplan-go/pkg/geom"
	"printplan-go/pkg/plan"
)

// writeTimeout bounds each websocket send so a stalled peer cannot block
// the export traversal indefinitely.
const writeTimeout = 10 * time.Second

// PathMessage is the wire format of one forwarded sink call. Position
// coordinates are microns.
type PathMessage struct {
	Session string `json:"session"`
	Type    string `json:"type"`

	Position *[3]int64 `json:"position,omitempty"`
	Speed    float64   `json:"speed,omitempty"`
	Feature  string    `json:"feature,omitempty"`

	ExtrusionMM3PerMM     float64 `json:"extrusion_mm3_per_mm,omitempty"`
	LineWidth             int64   `json:"line_width,omitempty"`
	LineThickness         int64   `json:"line_thickness,omitempty"`
	UpdateExtrusionOffset bool    `json:"update_extrusion_offset,omitempty"`

	LayerIndex int   `json:"layer_index"`
	Z          int64 `json:"z,omitempty"`
	Thickness  int64 `json:"thickness,omitempty"`

	Extruder    int     `json:"extruder,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Wait        bool    `json:"wait,omitempty"`
	FanPercent  float64 `json:"fan_percent,omitempty"`
}

// CommunicationExporter forwards every sink call as a JSON message over a
// live websocket connection to an external controller or monitor. Calls are
// serialized under a mutex; each send carries a write deadline.
type CommunicationExporter struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	session string
	layer   int
}

// NewCommunicationExporter creates a channel sink on an established
// connection. The exporter does not own the connection's read side.
func NewCommunicationExporter(conn *websocket.Conn) *CommunicationExporter {
	return &CommunicationExporter{
		conn:    conn,
		session: uuid.New().String(),
	}
}

// Session returns the id tagged onto every forwarded message.
func (c *CommunicationExporter) Session() string { return c.session }

func (c *CommunicationExporter) send(msg PathMessage) error {
	msg.Session = c.session

	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(msg); err != nil {
		return errors.Wrap(err, errors.ErrExportSink, "websocket send failed")
	}
	return nil
}

// WriteExtrusion forwards one extrusion call.
func (c *CommunicationExporter) WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
	lineWidth, lineThickness geom.Coord, feature plan.FeatureType, updateExtrusionOffset bool) error {
	return c.send(PathMessage{
		Type:                  "extrusion",
		Position:              &[3]int64{int64(p.X), int64(p.Y), int64(p.Z)},
		Speed:                 float64(speed),
		Feature:               feature.String(),
		ExtrusionMM3PerMM:     extrusionMM3PerMM,
		LineWidth:             int64(lineWidth),
		LineThickness:         int64(lineThickness),
		UpdateExtrusionOffset: updateExtrusionOffset,
		LayerIndex:            c.layer,
	})
}

// WriteTravelMove forwards one travel call.
func (c *CommunicationExporter) WriteTravelMove(p geom.Point3, speed geom.Velocity, feature plan.FeatureType) error {
	return c.send(PathMessage{
		Type:       "travel",
		Position:   &[3]int64{int64(p.X), int64(p.Y), int64(p.Z)},
		Speed:      float64(speed),
		Feature:    feature.String(),
		LayerIndex: c.layer,
	})
}

// WriteLayerStart forwards the layer opening.
func (c *CommunicationExporter) WriteLayerStart(layerIndex int, start geom.Point3) error {
	c.layer = layerIndex
	return c.send(PathMessage{
		Type:       "layer_start",
		Position:   &[3]int64{int64(start.X), int64(start.Y), int64(start.Z)},
		LayerIndex: layerIndex,
	})
}

// WriteLayerEnd forwards the layer closing.
func (c *CommunicationExporter) WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error {
	return c.send(PathMessage{
		Type:       "layer_end",
		LayerIndex: layerIndex,
		Z:          int64(z),
		Thickness:  int64(thickness),
	})
}

// WriteTemperatureCommand forwards a queued temperature change.
func (c *CommunicationExporter) WriteTemperatureCommand(extruder int, temperature float64, wait bool) error {
	return c.send(PathMessage{
		Type:        "temperature",
		Extruder:    extruder,
		Temperature: temperature,
		Wait:        wait,
		LayerIndex:  c.layer,
	})
}

// WriteFanSpeed forwards a fan speed change.
func (c *CommunicationExporter) WriteFanSpeed(percent float64) error {
	return c.send(PathMessage{
		Type:       "fan",
		FanPercent: percent,
		LayerIndex: c.layer,
	})
}

// Close sends a close frame and shuts the connection down.
func (c *CommunicationExporter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
