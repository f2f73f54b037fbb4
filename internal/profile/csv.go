package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadCSV reads a cast from a CSV file with a header row containing "depth"
// and "temperature" columns (case-insensitive). Other columns are ignored.
func LoadCSV(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSV(name, f)
}

// ReadCSV parses a cast from r. Rows with an empty depth or temperature cell are skipped.
func ReadCSV(name string, r io.Reader) (Profile, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Profile{}, fmt.Errorf("%s: reading header: %w", name, err)
	}

	depthCol, tempCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "depth":
			depthCol = i
		case "temperature", "temp":
			tempCol = i
		}
	}
	if depthCol < 0 || tempCol < 0 {
		return Profile{}, fmt.Errorf("%s: header must contain depth and temperature columns, got %v", name, header)
	}

	var depth, temperature []float64
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return Profile{}, fmt.Errorf("%s: line %d: %w", name, line, err)
		}
		if depthCol >= len(record) || tempCol >= len(record) {
			return Profile{}, fmt.Errorf("%s: line %d: expected at least %d fields", name, line, max(depthCol, tempCol)+1)
		}

		ds, ts := strings.TrimSpace(record[depthCol]), strings.TrimSpace(record[tempCol])
		if ds == "" || ts == "" {
			continue
		}

		d, err := strconv.ParseFloat(ds, 64)
		if err != nil {
			return Profile{}, fmt.Errorf("%s: line %d: bad depth %q: %w", name, line, ds, err)
		}
		t, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			return Profile{}, fmt.Errorf("%s: line %d: bad temperature %q: %w", name, line, ts, err)
		}
		depth = append(depth, d)
		temperature = append(temperature, t)
	}

	return New(name, depth, temperature)
}
