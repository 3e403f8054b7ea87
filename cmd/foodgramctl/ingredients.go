package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/foodgram-backend/internal/services"
)

var importFormat string

var importIngredientsCmd = &cobra.Command{
	Use:   "import-ingredients <file>",
	Short: "Bulk load ingredients from a JSON or CSV file",
	Long: `Loads ingredients from a JSON array of {"name", "measurement_unit"} objects
or a CSV file with name,unit rows. Rows that already exist are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportIngredients,
}

func init() {
	importIngredientsCmd.Flags().StringVar(&importFormat, "format", "", "json or csv (default: by file extension)")
}

func runImportIngredients(cmd *cobra.Command, args []string) error {
	path := args[0]
	format := importFormat
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parseIngredients(f, format)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Services.Ingredient.Import(cmd.Context(), rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d ingredients\n", n, len(rows))
	return nil
}

func parseIngredients(r io.Reader, format string) ([]services.IngredientInput, error) {
	switch strings.ToLower(format) {
	case "json":
		var rows []services.IngredientInput
		if err := json.NewDecoder(r).Decode(&rows); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return rows, nil
	case "csv":
		return parseIngredientCSV(r)
	default:
		return nil, fmt.Errorf("unsupported format %q (want json or csv)", format)
	}
}

func parseIngredientCSV(r io.Reader) ([]services.IngredientInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	var rows []services.IngredientInput
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		name, unit := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if line == 1 && strings.EqualFold(name, "name") {
			continue
		}
		rows = append(rows, services.IngredientInput{Name: name, MeasurementUnit: unit})
	}
	return rows, nil
}
