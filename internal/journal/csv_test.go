package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-journal/internal/errors"
	"options-journal/internal/strategy"
)

const csvHeader = "symbol,strategy,strike,premium,fee,share_basis,cash_secured,current_price,current_premium,contracts,open_date,expiration,notes\n"

func TestReadPositions(t *testing.T) {
	input := csvHeader +
		"aapl,covered_call,100,250,0.65,95,0,103,0,1,2024-01-15,2024-02-16,wheel week 3\n" +
		"MSFT,cash_secured_put,400,510,1.30,0,0,412,0,2,2024-01-16,2024-03-15,\n"

	positions, err := ReadPositions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, positions, 2)

	first := positions[0]
	assert.Equal(t, "AAPL", first.Symbol)
	assert.Equal(t, strategy.KindCoveredCall, first.Strategy)
	assert.Equal(t, 100.0, first.Strike)
	assert.Equal(t, 250.0, first.Premium)
	assert.Equal(t, StatusOpen, first.Status)
	assert.Equal(t, "wheel week 3", first.Notes)
	assert.Equal(t, "2024-01-15", first.OpenDate.Format("2006-01-02"))
	assert.NotEmpty(t, first.ID)

	assert.Equal(t, strategy.KindCashSecuredPut, positions[1].Strategy)
	assert.Equal(t, 2, positions[1].Contracts)
}

func TestReadPositionsBadRows(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		field string
	}{
		{"missing symbol", ",covered_call,100,250,0,95,0,103,0,1,2024-01-15,2024-02-16,", "symbol"},
		{"unknown strategy", "AAPL,iron_condor,100,250,0,95,0,103,0,1,2024-01-15,2024-02-16,", "strategy"},
		{"bad open date", "AAPL,covered_call,100,250,0,95,0,103,0,1,15/01/2024,2024-02-16,", "open_date"},
		{"bad expiration", "AAPL,covered_call,100,250,0,95,0,103,0,1,2024-01-15,soon,", "expiration"},
		{"zero strike", "AAPL,covered_call,0,250,0,95,0,103,0,1,2024-01-15,2024-02-16,", "strike"},
		{"negative premium", "AAPL,covered_call,100,-5,0,95,0,103,0,1,2024-01-15,2024-02-16,", "premium"},
		{"zero contracts", "AAPL,covered_call,100,250,0,95,0,103,0,0,2024-01-15,2024-02-16,", "contracts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPositions(strings.NewReader(csvHeader + tt.row + "\n"))
			require.Error(t, err)

			var impErr *errors.ImportError
			require.ErrorAs(t, err, &impErr)
			assert.Equal(t, 2, impErr.Row)
			assert.Equal(t, tt.field, impErr.Field)
		})
	}
}

func TestReadPositionsEmpty(t *testing.T) {
	positions, err := ReadPositions(strings.NewReader(csvHeader))
	require.NoError(t, err)
	assert.Empty(t, positions)
}
