package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// readMeasuredTrack parses whitespace-separated "x y tb" rows from a text
// file into a matrix of measured points in raw detector space. Lines
// starting with '#' are comments.
func readMeasuredTrack(filename string) (*mat.Dense, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []float64
	numRows := 0

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", lineNum, len(fields))
		}
		for _, f := range fields {
			val, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			rows = append(rows, val)
		}
		numRows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if numRows == 0 {
		return nil, fmt.Errorf("no data points in %s", filename)
	}

	return mat.NewDense(numRows, 3, rows), nil
}
