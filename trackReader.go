package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	mcfit "github.com/attpc/mcfit_go/pkg"
	"gonum.org/v1/gonum/mat"
)

// TrackSamples holds one track read from a text file: position rows and the
// matching cumulative energy samples.
type TrackSamples struct {
	Pos *mat.Dense
	En  []float64
}

// readTracks parses whitespace-separated "x y z energy" rows from a text
// file. Blank lines separate tracks; lines starting with '#' are comments.
func readTracks(filename string) ([]TrackSamples, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var tracks []TrackSamples
	var rows []float64
	var en []float64

	flush := func() error {
		if len(en) == 0 {
			return nil
		}
		pos := mat.NewDense(len(en), 3, rows)
		tracks = append(tracks, TrackSamples{Pos: pos, En: en})
		rows = nil
		en = nil
		return nil
	}

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 columns, got %d", lineNum, len(fields))
		}
		vals := make([]float64, 4)
		for i, f := range fields {
			vals[i], err = strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		}
		rows = append(rows, vals[0], vals[1], vals[2])
		en = append(en, vals[3])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("no track samples in %s", filename)
	}
	return tracks, nil
}

func warnOnRisingEnergy(idx int, ts TrackSamples) {
	if err := mcfit.CheckEnergyMonotonic(ts.En); err != nil {
		message := fmt.Sprintf("track %d: %v (negative electron counts will propagate)", idx, err)
		logger.Error(message)
	}
}
