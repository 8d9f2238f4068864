package export

import (
	"printplan-go/pkg/geom"
	"printplan-go/pkg/log"
	"printplan-go/pkg/plan"
)

// ConsoleExporter logs one human-readable line per sink call. Debugging and
// test aid, never production output.
type ConsoleExporter struct {
	logger *log.Logger
}

// NewConsoleExporter creates a console sink on the default logger.
func NewConsoleExporter() *ConsoleExporter {
	return &ConsoleExporter{logger: log.GetLogger("export")}
}

// NewConsoleExporterWithLogger creates a console sink on a specific logger,
// e.g. one capturing output in tests.
func NewConsoleExporterWithLogger(logger *log.Logger) *ConsoleExporter {
	return &ConsoleExporter{logger: logger}
}

// WriteExtrusion logs one extrusion call.
func (c *ConsoleExporter) WriteExtrusion(p geom.Point3, speed geom.Velocity, extrusionMM3PerMM float64,
	lineWidth, lineThickness geom.Coord, feature plan.FeatureType, updateExtrusionOffset bool) error {
	c.logger.WithFields(log.Fields{
		"x":       p.X.MM(),
		"y":       p.Y.MM(),
		"speed":   float64(speed),
		"width":   int64(lineWidth),
		"feature": feature.String(),
	}).Info("EXTRUSION")
	return nil
}

// WriteTravelMove logs one travel call.
func (c *ConsoleExporter) WriteTravelMove(p geom.Point3, speed geom.Velocity, feature plan.FeatureType) error {
	c.logger.WithFields(log.Fields{
		"x":     p.X.MM(),
		"y":     p.Y.MM(),
		"speed": float64(speed),
	}).Info("TRAVEL")
	return nil
}

// WriteLayerStart logs the layer opening.
func (c *ConsoleExporter) WriteLayerStart(layerIndex int, start geom.Point3) error {
	c.logger.WithFields(log.Fields{
		"layer": layerIndex,
		"x":     start.X.MM(),
		"y":     start.Y.MM(),
	}).Info("LAYER START")
	return nil
}

// WriteLayerEnd logs the layer closing.
func (c *ConsoleExporter) WriteLayerEnd(layerIndex int, z, thickness geom.Coord) error {
	c.logger.WithFields(log.Fields{
		"layer":     layerIndex,
		"z":         z.MM(),
		"thickness": thickness.MM(),
	}).Info("LAYER END")
	return nil
}

// WriteTemperatureCommand logs a queued temperature change.
func (c *ConsoleExporter) WriteTemperatureCommand(extruder int, temperature float64, wait bool) error {
	c.logger.WithFields(log.Fields{
		"extruder":    extruder,
		"temperature": temperature,
		"wait":        wait,
	}).Info("TEMPERATURE")
	return nil
}

// WriteFanSpeed logs a fan speed change.
func (c *ConsoleExporter) WriteFanSpeed(percent float64) error {
	c.logger.WithField("percent", percent).Info("FAN")
	return nil
}
