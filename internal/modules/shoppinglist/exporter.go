package shoppinglist

import (
	"context"
	"fmt"

	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

// Download metadata of an exported shopping list.
const (
	ReportFilename    = "shopping_cart.txt"
	ReportContentType = "text/plain"
)

// Source yields the cart lines of a user, ordered by cart entry and then by the recipe's
// ingredient order.
type Source interface {
	CartLines(ctx context.Context, userID uint) ([]CartLine, error)
}

// Report is a rendered shopping list ready to be served as a file.
type Report struct {
	Lines       []AggregatedLine
	Text        string
	Filename    string
	ContentType string
}

// Exporter builds a user's shopping list report from a Source.
type Exporter struct {
	src Source
	log *logger.Logger
}

func NewExporter(src Source, baseLog *logger.Logger) *Exporter {
	return &Exporter{src: src, log: baseLog.With("component", "ShoppingListExporter")}
}

func (e *Exporter) Export(ctx context.Context, userID uint) (Report, error) {
	lines, err := e.src.CartLines(ctx, userID)
	if err != nil {
		return Report{}, fmt.Errorf("load cart lines: %w", err)
	}
	if err := Validate(lines); err != nil {
		return Report{}, err
	}
	agg, conflicts := aggregate(lines)
	for _, c := range conflicts {
		e.log.Warn("ingredient listed with differing units; keeping first",
			"ingredient", c.IngredientName,
			"kept_unit", c.KeptUnit,
			"dropped_unit", c.DroppedUnit,
			"user_id", userID,
		)
	}
	return Report{
		Lines:       agg,
		Text:        Render(agg),
		Filename:    ReportFilename,
		ContentType: ReportContentType,
	}, nil
}
