// plandump builds a demonstration layer plan, runs the transformation
// pipeline on it and exports the result. Debugging harness for the
// planning packages, not an orchestration surface.
//
// Usage:
//
//	plandump [options]
//
// Options:
//
//	-settings string  Planner settings TOML file (optional)
//	-output string    G-code output path, "-" for stdout (default "-")
//	-console          Additionally log every sink call
//	-ws string        Additionally forward sink calls to a websocket URL
//	-layers int       Number of demo layers to plan (default 3)
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/websocket"

	"printplan-go/pkg/config"
	"printplan-go/pkg/export"
	"printplan-go/pkg/geom"
	"printplan-go/pkg/log"
	"printplan-go/pkg/plan"
	"printplan-go/pkg/process"
)

func main() {
	settingsFile := flag.String("settings", "", "Planner settings TOML file (optional)")
	output := flag.String("output", "-", "G-code output path, \"-\" for stdout")
	console := flag.Bool("console", false, "Additionally log every sink call")
	wsURL := flag.String("ws", "", "Additionally forward sink calls to a websocket URL")
	layers := flag.Int("layers", 3, "Number of demo layers to plan")
	flag.Parse()

	logger := log.GetLogger("plandump")

	settings := config.Default()
	if *settingsFile != "" {
		var err error
		settings, err = config.Load(*settingsFile)
		if err != nil {
			logger.Error("failed to load settings: %v", err)
			os.Exit(1)
		}
	}

	var out io.Writer = os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			logger.Error("failed to create output file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	gcode := export.NewGCodeExporter(out, export.GCodeOptions{
		FilamentDiameter: settings.Export.FilamentDiameter,
	})
	sink := export.NewMultiExporter(gcode)
	if *console {
		sink.AppendExporter(export.NewConsoleExporter())
	}
	if *wsURL != "" {
		conn, _, err := websocket.DefaultDialer.Dial(*wsURL, nil)
		if err != nil {
			logger.Error("failed to connect to %s: %v", *wsURL, err)
			os.Exit(1)
		}
		comm := export.NewCommunicationExporter(conn)
		defer comm.Close()
		sink.AppendExporter(comm)
		logger.Info("forwarding sink calls to %s (session %s)", *wsURL, comm.Session())
	}

	opts := process.Options{
		ConstraintGenerators: []process.ConstraintsGenerator{
			process.InsetOrderingGenerator{OuterFirst: true},
		},
		TravelGenerator:   process.DirectTravelMoveGenerator{},
		Criteria:          seamCriteria(settings.Seam),
		BackPressureRatio: geom.Ratio(settings.Compensation.BackPressureRatio),
	}

	for i := 0; i < *layers; i++ {
		layer := buildDemoLayer(i, settings)
		process.Apply(layer, opts)
		if err := layer.Write(sink, nil); err != nil {
			logger.Error("export failed on layer %d: %v", i, err)
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "planned %d layers: %.2f mm3 extruded, %.1f s estimated\n",
		*layers, gcode.TotalExtrusionVolume(), gcode.EstimatedDuration())
}

func seamCriteria(seam config.SeamSettings) process.CriteriaFactory {
	exclusions := seam.ExclusionPolygons()
	return func(from geom.Point3, haveFrom bool) []process.ScoringCriterion {
		criteria := make([]process.ScoringCriterion, 0, 2)
		if haveFrom {
			criteria = append(criteria, process.DistanceScoringCriterion{
				From:        from,
				NormalizeMM: seam.DistanceNormalizationMM,
			})
		}
		if len(exclusions) > 0 {
			criteria = append(criteria, process.ExclusionAreaScoringCriterion{Areas: exclusions})
		}
		return criteria
	}
}

// buildDemoLayer plans a 20mm square: outer wall, inner wall and three
// infill lines, in deliberately scrambled insertion order so the
// constraint pass has work to do.
func buildDemoLayer(index int, settings config.Settings) *plan.LayerPlan {
	const thickness = geom.Coord(200)
	z := geom.Coord(index+1) * thickness
	layer := plan.NewLayerPlan(index, z, thickness, geom.Point3{Z: z})

	extruderPlan := plan.NewExtruderPlan(0, geom.Velocity(settings.Travel.Speed))
	layer.AppendExtruderPlan(extruderPlan)

	wallConfig := plan.FeatureConfig{
		Type:              plan.FeatureWallOuter,
		LineWidth:         400,
		Speed:             30,
		LayerThickness:    thickness,
		FlowRatio:         1.0,
		ExtrusionMM3PerMM: 0.08,
	}

	// Insertion order: infill first, then the walls inner before outer.
	// The outer-first constraint generator has to reorder both walls.
	infillConfig := wallConfig
	infillConfig.Type = plan.FeatureInfill
	infillConfig.Speed = 60
	infill := plan.NewFeatureExtrusion(infillConfig)
	for i := 0; i < 3; i++ {
		y := geom.Coord(5000 + i*5000)
		line := plan.NewContinuousMoveSequence(false, geom.Point3{X: 2000, Y: y, Z: 0})
		line.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: 18000, Y: y}, 1.0))
		infill.AppendMoveSequence(line, true)
	}
	extruderPlan.AppendFeatureExtrusion(infill, true)

	innerConfig := wallConfig
	innerConfig.Type = plan.FeatureWallInner
	extruderPlan.AppendFeatureExtrusion(squareWall(innerConfig, 1, 1000), true)
	extruderPlan.AppendFeatureExtrusion(squareWall(wallConfig, 0, 0), true)

	return layer
}

func squareWall(cfg plan.FeatureConfig, insetIndex int, inset geom.Coord) *plan.FeatureExtrusion {
	wall := plan.NewWallFeatureExtrusion(cfg, insetIndex)
	lo, hi := inset, geom.Coord(20000)-inset
	loop := plan.NewContinuousMoveSequence(true, geom.Point3{X: lo, Y: lo})
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: hi, Y: lo}, 1.0))
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: hi, Y: hi}, 1.0))
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: lo, Y: hi}, 1.0))
	loop.AppendExtrusionMove(plan.NewExtrusionMove(geom.Point3{X: lo, Y: lo}, 1.0))
	wall.AppendMoveSequence(loop, true)
	return wall
}
