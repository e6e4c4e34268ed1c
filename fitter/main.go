package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	uuid "github.com/google/uuid"

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

// FitResult is the JSON document written at the end of a fit.
type FitResult struct {
	FitID      string      `json:"fit_id"`
	Params     []float64   `json:"params"`
	Chi2       float64     `json:"chi2"`
	MinChis    []float64   `json:"min_chis"`
	GoodParams [][]float64 `json:"good_params"`
	DurationMs int64       `json:"duration_ms"`
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	outFilename := flag.String("out", "fit.json", "Fit result output path")
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

	trueValues, err := readMeasuredTrack(configuration.FileIn)
	if err != nil {
		message := fmt.Errorf("error reading measured track: %w", err)
		logger.Error(message.Error())
		return
	}
	numPts, _ := trueValues.Dims()
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of measured points: %d", numPts)
		logger.Info(message, "main")
	}

	tracker := &mcfit.LinearTracker{
		DeDx: configuration.DeDx,
		Step: configuration.TrackStep,
		ZMax: configuration.ChamberLength,
	}
	evtgen := mcfit.NewEventGenerator(generatorParams(configuration), nil)

	minimizer := mcfit.NewMinimizer(tracker, evtgen,
		configuration.ParamMins, configuration.ParamMaxes,
		configuration.NumWorkers, configuration.Seed)

	start := time.Now()
	result, err := minimizer.Minimize(configuration.Ctr0, configuration.Sigma0,
		trueValues, configuration.NumIters, configuration.NumPts, configuration.RedFactor)
	if err != nil {
		message := fmt.Errorf("fit failed: %w", err)
		logger.Error(message.Error())
		return
	}
	duration := time.Since(start)

	finalChi := result.MinChis[len(result.MinChis)-1]
	message := fmt.Sprintf("Fit finished in %d ms, chi2 = %g", duration.Milliseconds(), finalChi)
	logger.Info(message, "main")

	if err := writeFitResult(*outFilename, result, duration); err != nil {
		message := fmt.Errorf("error writing fit result: %w", err)
		logger.Error(message.Error())
		return
	}

	if configuration.PlotDir != "" {
		if err := os.MkdirAll(configuration.PlotDir, 0755); err != nil {
			logger.Error(err.Error())
			return
		}
		plotFile := filepath.Join(configuration.PlotDir, "convergence.png")
		if err := mcfit.SaveConvergencePlot(result.MinChis, plotFile); err != nil {
			logger.Error(err.Error())
		}
	}
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

func writeFitResult(filename string, result *mcfit.MinimizeResult, duration time.Duration) error {
	rows, cols := result.GoodParams.Dims()
	goodParams := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = result.GoodParams.At(i, j)
		}
		goodParams[i] = row
	}

	doc := FitResult{
		FitID:      uuid.New().String(),
		Params:     result.Ctr,
		Chi2:       result.MinChis[len(result.MinChis)-1],
		MinChis:    result.MinChis,
		GoodParams: goodParams,
		DurationMs: duration.Milliseconds(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
