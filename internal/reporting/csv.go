package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"ZoneDCA/internal/backtest"
	"ZoneDCA/internal/model"
)

const dateLayout = "2006-01-02"

// money rounds to cents.
func money(f float64) string { return decimal.NewFromFloat(f).StringFixed(2) }

func qty(f float64) string { return decimal.NewFromFloat(f).StringFixed(6) }

// WriteTradesCSV writes the ledger in date order with a header row.
func WriteTradesCSV(w io.Writer, trades []model.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "kind", "level", "price", "amount", "shares", "realized_pnl"}); err != nil {
		return err
	}
	for _, t := range trades {
		err := cw.Write([]string{
			t.ID, t.Date.Format(dateLayout), t.Kind.String(), strconv.Itoa(t.Level),
			money(t.Price), money(t.Amount), qty(t.Shares), money(t.RealizedPnL),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLotsCSV writes the position history. Open lots leave the sell columns empty.
func WriteLotsCSV(w io.Writer, lots []model.Lot) error {
	cw := csv.NewWriter(w)
	header := []string{"buy_date", "kind", "level", "buy_price", "shares", "amount",
		"sell_date", "sell_level", "sell_price", "pnl", "roi_pct", "hold_days"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range lots {
		row := []string{
			l.BuyDate.Format(dateLayout), l.Kind.String(), strconv.Itoa(l.Level),
			money(l.BuyPrice), qty(l.Shares), money(l.Amount),
			"", "", "", "", "", "",
		}
		if !l.Open() {
			row[6] = l.SellDate.Format(dateLayout)
			row[7] = strconv.Itoa(l.SellLevel)
			row[8] = money(l.SellPrice)
			row[9] = money(l.PnL)
			row[10] = money(l.ROIPct)
			row[11] = strconv.Itoa(l.HoldDays)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes <symbol>_trades.csv and <symbol>_lots.csv under dir and returns their paths.
func SaveCSV(dir string, res *backtest.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := res.Symbol
	if name == "" {
		name = "backtest"
	}

	tradesPath := filepath.Join(dir, name+"_trades.csv")
	lotsPath := filepath.Join(dir, name+"_lots.csv")
	if err := writeFile(tradesPath, func(w io.Writer) error { return WriteTradesCSV(w, res.Trades) }); err != nil {
		return nil, fmt.Errorf("write trades: %w", err)
	}
	if err := writeFile(lotsPath, func(w io.Writer) error { return WriteLotsCSV(w, res.Lots) }); err != nil {
		return nil, fmt.Errorf("write lots: %w", err)
	}
	return []string{tradesPath, lotsPath}, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
