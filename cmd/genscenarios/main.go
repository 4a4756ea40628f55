// Command genscenarios generates the golden demo histories offline: it
// simulates every catalog segment, seeds the SQLite store, optionally dumps
// CSVs for inspection and fits the RUL model artifact on the engineered
// features. With -import it bulk-loads previously dumped CSVs instead of
// simulating.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hydrosense/phealth-backend/database"
	"github.com/hydrosense/phealth-backend/internal/config"
	"github.com/hydrosense/phealth-backend/internal/features"
	"github.com/hydrosense/phealth-backend/internal/inference"
	"github.com/hydrosense/phealth-backend/internal/simulator"
	"github.com/hydrosense/phealth-backend/model"
	"github.com/hydrosense/phealth-backend/util"
)

var simulationEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func main() {
	catalogPath := flag.String("catalog", "configs/segments.yaml", "path to the segment catalog")
	dbPath := flag.String("db", "data/phealth.db", "path to the SQLite store")
	csvDir := flag.String("csv", "", "optional directory for CSV dumps")
	importDir := flag.String("import", "", "bulk-load histories from CSVs in this directory instead of simulating")
	modelPath := flag.String("model", "data/model.json", "output path for the model artifact")
	lambda := flag.Float64("lambda", 1.0, "ridge regularization strength")
	flag.Parse()

	logger := util.InitLogger().Sugar()

	if err := run(*catalogPath, *dbPath, *csvDir, *importDir, *modelPath, *lambda); err != nil {
		logger.Fatalf("genscenarios: %v", err)
	}
	logger.Info("Golden scenarios generated")
}

func run(catalogPath, dbPath, csvDir, importDir, modelPath string, lambda float64) error {
	cfg, err := config.Load(catalogPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}
	store, err := database.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	eng := features.NewEngineer()
	var training []model.FeatureVector

	for _, seg := range cfg.Segments {
		var records []model.DailyRecord
		if importDir != "" {
			records, err = readCSV(filepath.Join(importDir, fmt.Sprintf("history_%s.csv", seg.ID)))
			if err != nil {
				return fmt.Errorf("import %s: %w", seg.ID, err)
			}
		} else {
			records = simulator.New(seg.Scenario.Profile()).Run(simulationEpoch)
			simulator.ApplyAdjustments(records, seg.Scenario.Adjustments)
		}

		if err := store.ReplaceSegment(seg.ID, records); err != nil {
			return err
		}

		if csvDir != "" {
			if err := writeCSV(csvDir, seg.ID, records); err != nil {
				return err
			}
		}

		training = append(training, eng.EngineerFeatures(seg.ID, records)...)
	}

	artifact, err := inference.FitArtifact(training, lambda)
	if err != nil {
		return fmt.Errorf("fit model: %w", err)
	}
	artifact.TrainedAt = time.Now().UTC().Format(time.RFC3339)

	if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		return err
	}
	if err := inference.SaveArtifact(modelPath, artifact); err != nil {
		return err
	}
	return nil
}

var csvHeader = []string{
	"day", "date",
	"pressure_A", "flow_A", "corrosion_A", "acoustic_A", "temperature_A",
	"pressure_B", "flow_B", "corrosion_B", "acoustic_B", "temperature_B",
	"RUL", "scenario_id",
}

func writeCSV(dir, segmentID string, records []model.DailyRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("history_%s.csv", segmentID)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Day),
			rec.Date.Format("2006-01-02"),
			ftoa(rec.Upstream.Pressure), ftoa(rec.Upstream.Flow), ftoa(rec.Upstream.Corrosion),
			ftoa(rec.Upstream.Acoustic), ftoa(rec.Upstream.Temperature),
			ftoa(rec.Downstream.Pressure), ftoa(rec.Downstream.Flow), ftoa(rec.Downstream.Corrosion),
			ftoa(rec.Downstream.Acoustic), ftoa(rec.Downstream.Temperature),
			ftoa(rec.RUL),
			segmentID,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// readCSV bulk-loads a history dump written by writeCSV. Wall thickness and
// corrosion rate are not part of the dump format; imported records carry the
// sensor channels and RUL only.
func readCSV(path string) ([]model.DailyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}
	if len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(csvHeader), len(rows[0]))
	}

	records := make([]model.DailyRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		day, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: bad day %q: %w", path, row[0], err)
		}
		date, err := time.Parse("2006-01-02", row[1])
		if err != nil {
			return nil, fmt.Errorf("%s: bad date %q: %w", path, row[1], err)
		}

		vals := make([]float64, 11)
		for i := range vals {
			vals[i], err = strconv.ParseFloat(row[2+i], 64)
			if err != nil {
				return nil, fmt.Errorf("%s day %d: bad value %q: %w", path, day, row[2+i], err)
			}
		}

		records = append(records, model.DailyRecord{
			Day:  day,
			Date: date,
			Upstream: model.SensorReading{
				Pressure: vals[0], Flow: vals[1], Corrosion: vals[2], Acoustic: vals[3], Temperature: vals[4],
			},
			Downstream: model.SensorReading{
				Pressure: vals[5], Flow: vals[6], Corrosion: vals[7], Acoustic: vals[8], Temperature: vals[9],
			},
			RUL: vals[10],
		})
	}
	return records, nil
}
