// Команда cablecheck измеряет диаметр кабеля и ищет дефекты оболочки на одном снимке.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cable-inspector/config"
	"cable-inspector/internal/container"
	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/infrastructure/storage"
	"cable-inspector/internal/logger"
)

const cliSession int64 = 1

type report struct {
	Image        string                    `json:"image"`
	Width        int                       `json:"width"`
	Height       int                       `json:"height"`
	Measurements []entity.Measurement      `json:"measurements"`
	Summary      entity.MeasurementSummary `json:"summary"`
	Regions      []entity.DefectRegion     `json:"regions"`
	Counts       map[string]int            `json:"counts"`
}

func main() {
	measureOut := flag.String("measure-out", "", "Write the annotated diameter image to this path")
	defectsOut := flag.String("defects-out", "", "Write the annotated defect image to this path")
	asJSON := flag.Bool("json", false, "Print results as JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: cablecheck [-measure-out f] [-defects-out f] [-json] <image>")
		os.Exit(2)
	}
	input := flag.Arg(0)
	// OUTPUT_DIR касается только результатов: вход ищется от текущего каталога
	if !strings.HasPrefix(input, storage.AzureScheme) {
		if abs, err := filepath.Abs(input); err == nil {
			input = abs
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	c, err := container.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	svc := c.InspectionService

	ctx := context.Background()
	defer svc.Close(ctx, cliSession)

	if _, err := svc.Load(ctx, cliSession, 0, input); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", input, err)
		os.Exit(1)
	}

	result, err := svc.Inspect(ctx, cliSession, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Inspection failed: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		if err := printJSON(input, result); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write JSON: %v\n", err)
			os.Exit(1)
		}
	} else {
		desc, err := svc.Describe(ctx, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to describe result: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(desc.Text)
	}

	// Результаты уже в кэше сессии, сохранение не перезапускает конвейеры
	if *measureOut != "" {
		if err := svc.SaveMeasure(ctx, cliSession, 0, *measureOut); err != nil {
			logger.WithError(err).WithField("path", *measureOut).Error("could not save measure output")
			os.Exit(1)
		}
	}
	if *defectsOut != "" {
		if err := svc.SaveDefects(ctx, cliSession, 0, *defectsOut); err != nil {
			logger.WithError(err).WithField("path", *defectsOut).Error("could not save defect output")
			os.Exit(1)
		}
	}
}

func printJSON(input string, result *entity.InspectionResult) error {
	out := report{
		Image:        input,
		Width:        result.ImageWidth,
		Height:       result.ImageHeight,
		Measurements: result.Measure.Measurements,
		Summary:      result.Measure.Summary,
		Regions:      result.Defects.Regions,
		Counts:       make(map[string]int, len(entity.DefectClasses)),
	}
	for _, class := range entity.DefectClasses {
		out.Counts[class.String()] = result.Defects.Counts[class]
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
