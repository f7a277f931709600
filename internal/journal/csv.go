package journal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"options-journal/internal/errors"
)

const csvDateLayout = "2006-01-02"

// importRecord is the CSV row shape for bulk position import.
type importRecord struct {
	Symbol         string  `csv:"symbol"`
	Strategy       string  `csv:"strategy"`
	Strike         float64 `csv:"strike"`
	Premium        float64 `csv:"premium"`
	Fee            float64 `csv:"fee"`
	ShareBasis     float64 `csv:"share_basis"`
	CashSecured    float64 `csv:"cash_secured"`
	CurrentPrice   float64 `csv:"current_price"`
	CurrentPremium float64 `csv:"current_premium"`
	Contracts      int     `csv:"contracts"`
	OpenDate       string  `csv:"open_date"`
	Expiration     string  `csv:"expiration"`
	Notes          string  `csv:"notes"`
}

// ReadPositions parses a CSV stream of positions. Each row is validated
// individually and the first bad row aborts the import with an ImportError
// naming the row and field.
func ReadPositions(r io.Reader) ([]Position, error) {
	var records []importRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	positions := make([]Position, 0, len(records))
	for i, rec := range records {
		row := i + 2 // 1-based, after the header line
		p, err := rec.toPosition(row)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, nil
}

func (rec importRecord) toPosition(row int) (Position, error) {
	symbol := strings.ToUpper(strings.TrimSpace(rec.Symbol))
	if symbol == "" {
		return Position{}, errors.NewImportError(row, "symbol", "symbol is required")
	}

	kind, err := ParseKind(strings.TrimSpace(rec.Strategy))
	if err != nil {
		return Position{}, errors.NewImportError(row, "strategy", fmt.Sprintf("unknown strategy %q", rec.Strategy))
	}

	openDate, err := time.Parse(csvDateLayout, rec.OpenDate)
	if err != nil {
		return Position{}, errors.NewImportError(row, "open_date", fmt.Sprintf("invalid date %q, want YYYY-MM-DD", rec.OpenDate))
	}
	expiration, err := time.Parse(csvDateLayout, rec.Expiration)
	if err != nil {
		return Position{}, errors.NewImportError(row, "expiration", fmt.Sprintf("invalid date %q, want YYYY-MM-DD", rec.Expiration))
	}

	if rec.Strike <= 0 {
		return Position{}, errors.NewImportError(row, "strike", "strike must be positive")
	}
	if rec.Premium <= 0 {
		return Position{}, errors.NewImportError(row, "premium", "premium must be positive")
	}
	if rec.Contracts <= 0 {
		return Position{}, errors.NewImportError(row, "contracts", "contracts must be positive")
	}

	return Position{
		ID:             NewPositionID(symbol, kind, openDate),
		Symbol:         symbol,
		Strategy:       kind,
		Strike:         rec.Strike,
		Premium:        rec.Premium,
		Fee:            rec.Fee,
		ShareBasis:     rec.ShareBasis,
		CashSecured:    rec.CashSecured,
		CurrentPrice:   rec.CurrentPrice,
		CurrentPremium: rec.CurrentPremium,
		Contracts:      rec.Contracts,
		OpenDate:       openDate,
		Expiration:     expiration,
		Status:         StatusOpen,
		Notes:          rec.Notes,
	}, nil
}
