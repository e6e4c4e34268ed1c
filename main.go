package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	mcfit "github.com/attpc/mcfit_go/pkg"
)

var configuration mcfit.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = mcfit.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	mcfit.SetConfiguration(configuration)
	mcfit.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
	}

	pads, err := loadPadPlane(configuration)
	if err != nil {
		logger.Error(err.Error())
		return
	}

	tracks, err := readTracks(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("error reading tracks: %w", err)
		logger.Error(message.Error())
		return
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of tracks: %d", len(tracks))
		logger.Info(message, "main")
	}

	evtgen := mcfit.NewEventGenerator(generatorParams(configuration), pads)

	writer, err := mcfit.NewWriter(configuration.FileOut)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	defer writer.Close()

	if err := writer.WriteRunInfo(configuration.RunNumber, evtgen.Params()); err != nil {
		logger.Error(err.Error())
		return
	}

	start := time.Now()
	for i, ts := range tracks {
		warnOnRisingEnergy(i, ts)
		if err := simulateTrack(evtgen, writer, uint32(i), ts); err != nil {
			message := fmt.Errorf("error simulating track %d: %w", i, err)
			logger.Error(message.Error())
			return
		}
	}
	duration := time.Since(start)

	message := fmt.Sprintf("Simulated %d events in %d ms", len(tracks), duration.Milliseconds())
	logger.Info(message, "main")
}

func loadPadPlane(config mcfit.Configuration) (mcfit.PadPlane, error) {
	if config.NoDB {
		plane := &mcfit.RectPadPlane{
			X0:    -float64(config.PadCols) / 2 * config.PadPitch,
			Y0:    -float64(config.PadRows) / 2 * config.PadPitch,
			Pitch: config.PadPitch,
			Cols:  config.PadCols,
			Rows:  config.PadRows,
		}
		return plane, nil
	}

	dbConn, err := mcfit.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	defer dbConn.Close()

	return mcfit.LoadPadPlaneFromDB(dbConn, config.RunNumber, config.PadPitch)
}

func generatorParams(config mcfit.Configuration) mcfit.EventGeneratorParams {
	return mcfit.EventGeneratorParams{
		Vd:              config.Vd,
		Clock:           config.Clock,
		Shape:           config.Shape,
		MassNum:         config.MassNum,
		Ioniz:           config.Ioniz,
		MicromegasGain:  config.MicromegasGain,
		ElectronicsGain: config.ElectronicsGain,
		Tilt:            config.Tilt,
		DiffSigma:       config.DiffSigma,
		TBOffset:        float64(config.TBOffset),
		Overflow:        config.Overflow,
	}
}

func simulateTrack(evtgen *mcfit.EventGenerator, writer *mcfit.Writer, evtID uint32, ts TrackSamples) error {
	evt, err := evtgen.MakeEvent(ts.Pos, ts.En)
	if err != nil {
		return err
	}
	peaks, err := evtgen.MakePeaksTable(ts.Pos, ts.En)
	if err != nil {
		return err
	}
	mesh, err := evtgen.MakeMeshSignal(ts.Pos, ts.En)
	if err != nil {
		return err
	}
	hits, err := evtgen.MakeHitPattern(ts.Pos, ts.En)
	if err != nil {
		return err
	}

	if VerbosityLevel > 0 {
		message := fmt.Sprintf("event %d: %d pads hit", evtID, len(evt))
		logger.Info(message, "main")
	}

	simEvt := &mcfit.SimEvent{
		EventID: evtID,
		Signals: evt,
		Peaks:   peaks,
		Mesh:    mesh,
		Hits:    hits,
	}
	if err := writer.WriteEvent(simEvt); err != nil {
		return err
	}

	if configuration.PlotDir != "" {
		if err := os.MkdirAll(configuration.PlotDir, 0755); err != nil {
			return err
		}
		meshFile := filepath.Join(configuration.PlotDir, fmt.Sprintf("evt%03d_mesh.png", evtID))
		if err := mcfit.SaveSignalPlot(mesh, fmt.Sprintf("mesh signal, event %d", evtID), meshFile); err != nil {
			return err
		}
		hitsFile := filepath.Join(configuration.PlotDir, fmt.Sprintf("evt%03d_hits.png", evtID))
		if err := mcfit.SaveHitPatternPlot(hits, hitsFile); err != nil {
			return err
		}
	}

	return nil
}
