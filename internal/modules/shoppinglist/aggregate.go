// Package shoppinglist turns the ingredient requirements of every recipe in a user's cart
// into a single plain-text shopping list.
package shoppinglist

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedLine marks a cart line with an empty name or a non-positive amount.
var ErrMalformedLine = errors.New("malformed cart line")

// CartLine is one ingredient requirement contributed by one recipe in the cart.
type CartLine struct {
	IngredientName string
	Unit           string
	Amount         int
}

// AggregatedLine is the consolidated requirement for one distinct ingredient name.
type AggregatedLine struct {
	IngredientName string
	Unit           string
	TotalAmount    int
}

// UnitConflict records a line whose unit disagreed with the unit already kept for its name.
type UnitConflict struct {
	IngredientName string
	KeptUnit       string
	DroppedUnit    string
}

// Aggregate sums amounts per ingredient name. Output follows first-occurrence order and the
// first unit seen for a name is the one reported.
func Aggregate(lines []CartLine) []AggregatedLine {
	out, _ := aggregate(lines)
	return out
}

func aggregate(lines []CartLine) ([]AggregatedLine, []UnitConflict) {
	out := make([]AggregatedLine, 0, len(lines))
	var conflicts []UnitConflict
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		i, seen := index[l.IngredientName]
		if !seen {
			index[l.IngredientName] = len(out)
			out = append(out, AggregatedLine{
				IngredientName: l.IngredientName,
				Unit:           l.Unit,
				TotalAmount:    l.Amount,
			})
			continue
		}
		out[i].TotalAmount += l.Amount
		if l.Unit != out[i].Unit {
			conflicts = append(conflicts, UnitConflict{
				IngredientName: l.IngredientName,
				KeptUnit:       out[i].Unit,
				DroppedUnit:    l.Unit,
			})
		}
	}
	return out, conflicts
}

// Validate rejects lines with an empty name or a non-positive amount.
func Validate(lines []CartLine) error {
	for i, l := range lines {
		if strings.TrimSpace(l.IngredientName) == "" {
			return fmt.Errorf("line %d: empty ingredient name: %w", i, ErrMalformedLine)
		}
		if l.Amount <= 0 {
			return fmt.Errorf("line %d (%s): amount %d: %w", i, l.IngredientName, l.Amount, ErrMalformedLine)
		}
	}
	return nil
}
