package analysis

import (
	"context"
	"math"

	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/errors"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/internal/timeseries"
	"github.com/mengxue0127/Dynamic-Price-Analysis-of-Aritzia-E-commerce-Products/pkg/contracts/domain"
)

// correlationColumns are the numeric observation columns, in the order
// they appear in the matrix.
var correlationColumns = []string{
	"original_price", "sale_price", "discount_percentage", "savings_amount",
}

// Correlations computes the Pearson correlation matrix over the numeric
// columns, rounded to three decimals. A zero-variance column yields NaN
// cells, which serialize as empty values rather than fabricated zeros.
func (a *Analyzer) Correlations(ctx context.Context, table *timeseries.Table) (*domain.CorrelationMatrix, error) {
	if table.Len() == 0 {
		return nil, errors.NewEmptyAggregation("correlations", "observation table is empty")
	}

	series := map[string][]float64{
		"original_price":      make([]float64, table.Len()),
		"sale_price":          make([]float64, table.Len()),
		"discount_percentage": make([]float64, table.Len()),
		"savings_amount":      make([]float64, table.Len()),
	}
	for i, row := range table.Rows {
		series["original_price"][i] = row.OriginalPrice
		series["sale_price"][i] = row.SalePrice
		series["discount_percentage"][i] = row.DiscountPercent
		series["savings_amount"][i] = row.SavingsAmount
	}

	n := len(correlationColumns)
	values := make([][]float64, n)
	for i, ci := range correlationColumns {
		values[i] = make([]float64, n)
		for j, cj := range correlationColumns {
			if i == j {
				values[i][j] = 1
				continue
			}
			r := pearson(series[ci], series[cj])
			if math.IsNaN(r) {
				values[i][j] = math.NaN()
				continue
			}
			values[i][j] = round3(r)
		}
	}

	return &domain.CorrelationMatrix{Columns: correlationColumns, Values: values}, nil
}
