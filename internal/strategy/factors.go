package strategy

import (
	"fmt"

	"ZoneDCA/internal/model"
)

const (
	// MomentumThreshold is the 5-day move, in percent, that counts as pushing or rejecting.
	MomentumThreshold = 2.0
	// NearHighRatio and NearLowRatio bound "close to the 1y extreme".
	NearHighRatio = 0.95
	NearLowRatio  = 1.05
)

type momentum int

const (
	flat momentum = iota
	pushing
	rejecting
)

func classify(pct float64) momentum {
	switch {
	case pct > MomentumThreshold:
		return pushing
	case pct < -MomentumThreshold:
		return rejecting
	}
	return flat
}

func decide(pos *model.MarketPosition, zones model.ZoneConfig, firstTP int) {
	mom := classify(pos.MomentumPct)
	nearHigh := pos.HistoricalHigh > 0 && pos.Price/pos.HistoricalHigh > NearHighRatio
	nearLow := pos.HistoricalLow > 0 && pos.Price/pos.HistoricalLow < NearLowRatio
	above := pos.Price > pos.Regression
	below := pos.Price < pos.Regression

	switch {
	case pos.ZoneType == model.ZoneSell && above:
		pos.Action = model.ActionSell
		pos.Recommendation = sellAdvice(pos, mom, nearHigh)
	case pos.ZoneType == model.ZoneBuy && below:
		pos.Action = model.ActionBuy
		pos.Recommendation = buyAdvice(pos, mom, nearLow)
	case above && pos.ZoneType == model.ZoneNone:
		pos.Action = model.ActionHold
		if firstTP > 0 {
			pos.Recommendation = fmt.Sprintf("Hold. TP zone %d is %.1f%% higher; daily DCA only.",
				firstTP, pctTo(zones.TakeProfitZones[firstTP-1], pos.Price))
		} else {
			pos.Recommendation = "Hold. No take-profit zone is active; daily DCA only."
		}
	case below && pos.ZoneType == model.ZoneNone:
		pos.Action = model.ActionMonitor
		pos.Recommendation = "Daily DCA only; wait for a zone entry before 5x buys."
		if len(zones.BuyZones) > 0 {
			pos.Recommendation = fmt.Sprintf("Daily DCA only. Buy zone 1 is %.1f%% lower; wait for a zone entry before 5x buys.",
				-pctTo(zones.BuyZones[0], pos.Price))
		}
	default:
		pos.Action = model.ActionNeutral
		pos.Recommendation = "Price is at fair value; daily DCA only."
	}
}

func pctTo(target, price float64) float64 {
	return (target - price) / price * 100
}

func sellAdvice(pos *model.MarketPosition, mom momentum, nearHigh bool) string {
	zone, next := pos.ZoneLevel, pos.NextZoneLevel
	if nearHigh {
		switch {
		case mom == pushing && next > 0:
			return fmt.Sprintf("Take 25-50%% profit at TP zone %d and hold the rest for TP zone %d. Exit fully on rejection.", zone, next)
		case mom == rejecting:
			return fmt.Sprintf("Sell 75-100%% at TP zone %d. Price is rejecting at %.1f%% of the 1y high.", zone, pos.Price/pos.HistoricalHigh*100)
		default:
			return fmt.Sprintf("Sell 50-75%% at TP zone %d near the 1y high. Hold the rest only on strong closes.", zone)
		}
	}
	switch {
	case mom == pushing && next > 0:
		return fmt.Sprintf("Take 25%% profit at TP zone %d and hold the rest for TP zone %d.", zone, next)
	case mom == rejecting:
		return fmt.Sprintf("Sell 50-75%% at TP zone %d and stop the rest at the zone.", zone)
	default:
		return fmt.Sprintf("Sell 25-50%% at TP zone %d. The 1y high is %.1f%% away.", zone, pctTo(pos.HistoricalHigh, pos.Price))
	}
}

func buyAdvice(pos *model.MarketPosition, mom momentum, nearLow bool) string {
	zone, next := pos.ZoneLevel, pos.NextZoneLevel
	if nearLow {
		switch {
		case mom == rejecting && next > 0:
			return fmt.Sprintf("Split the 5x buy: 2.5x now at buy zone %d, 2.5x at buy zone %d.", zone, next)
		case mom == pushing:
			return fmt.Sprintf("Execute the full 5x buy at buy zone %d. Price is bouncing off the 1y low.", zone)
		default:
			return fmt.Sprintf("Accumulate with 5x buys at buy zone %d near the 1y low.", zone)
		}
	}
	switch {
	case mom == rejecting && next > 0:
		return fmt.Sprintf("Buy 3x now at buy zone %d and keep 2x for buy zone %d.", zone, next)
	case mom == pushing:
		return fmt.Sprintf("Execute the full 5x buy at buy zone %d. Support is holding.", zone)
	default:
		return fmt.Sprintf("Execute 5x buys at buy zone %d. The 1y low is %.1f%% below.", zone, -pctTo(pos.HistoricalLow, pos.Price))
	}
}
