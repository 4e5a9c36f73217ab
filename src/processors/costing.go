package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/goldbooks/backend/src/models"
	"github.com/username/goldbooks/backend/src/utils"
)

// CostingResult is the output of one replay: the ordered movement log for
// the requested window plus the final inventory state per product.
type CostingResult struct {
	Movements []models.Movement
	States    map[string]models.InventoryState
}

// CostingEngine replays the receipt history in chronological order,
// maintaining a moving weighted-average cost per product. The weighted
// average changes only on purchases; sales consume stock at the current
// average, which is what prices cost-of-goods-sold.
type CostingEngine struct {
	classifier *Classifier
}

func NewCostingEngine(classifier *Classifier) *CostingEngine {
	return &CostingEngine{classifier: classifier}
}

// ReplayAll replays the entire history with no window: every stock-affecting
// line becomes an in/out movement and no opening rows are produced. This is
// the replay the double-entry mapper resolves COGS against, since opening
// balances need COGS for pre-window sales too.
func (e *CostingEngine) ReplayAll(receipts []models.Receipt) CostingResult {
	return e.Replay(receipts, time.Time{}, time.Time{})
}

// Replay replays receipts strictly before windowStart to establish opening
// balances, emits one "opening" movement per product still holding stock,
// then continues through [windowStart, windowEnd) emitting "in"/"out"
// movements. A zero windowStart disables openings; a zero windowEnd leaves
// the window unbounded. Same-day receipts are processed in log order.
func (e *CostingEngine) Replay(receipts []models.Receipt, windowStart, windowEnd time.Time) CostingResult {
	sorted := make([]models.Receipt, len(receipts))
	copy(sorted, receipts)
	models.SortChrono(sorted)

	states := make(map[string]models.InventoryState)
	var productOrder []string
	var movements []models.Movement
	opened := windowStart.IsZero()

	for _, r := range sorted {
		rtype := e.classifier.Classify(r)
		if rtype == "" || len(r.Products) == 0 {
			continue
		}
		date := r.DateTime()
		if !windowEnd.IsZero() && !date.Before(windowEnd) {
			break
		}
		inWindow := opened || !date.Before(windowStart)
		if inWindow && !opened {
			movements = append(movements, openingMovements(states, productOrder)...)
			opened = true
		}

		for _, line := range r.Products {
			qty, ok := line.StockQty()
			if !ok {
				continue
			}
			st, seen := states[line.Name]
			if !seen {
				productOrder = append(productOrder, line.Name)
			}

			var mv models.Movement
			switch rtype {
			case models.ReceiptTypePurchase:
				price := utils.Round3(line.Price)
				st.Quantity = utils.Round3(st.Quantity.Add(qty))
				st.TotalCost = utils.Round3(st.TotalCost.Add(price))
				if st.Quantity.IsZero() {
					st.AvgUnitCost = decimal.Zero
				} else {
					st.AvgUnitCost = utils.Round3(st.TotalCost.Div(st.Quantity))
				}
				mv = models.Movement{
					Date:            r.Date,
					Type:            models.MovementIn,
					Qty:             qty,
					UnitCost:        utils.Round3(price.Div(qty)),
					Total:           price,
					Desc:            fmt.Sprintf("ซื้อตามใบเสร็จ %s", r.ReceiptNo),
					Product:         line.Name,
					SourceReceiptNo: r.ReceiptNo,
				}
			case models.ReceiptTypeSale:
				unitCost := st.AvgUnitCost
				cogs := utils.Round3(qty.Mul(unitCost))
				st.Quantity = utils.Round3(st.Quantity.Sub(qty))
				st.TotalCost = utils.Round3(st.TotalCost.Sub(cogs))
				// The weighted average is deliberately untouched on sales.
				mv = models.Movement{
					Date:            r.Date,
					Type:            models.MovementOut,
					Qty:             qty,
					UnitCost:        unitCost,
					Total:           cogs,
					Desc:            fmt.Sprintf("ขายตามใบเสร็จ %s", r.ReceiptNo),
					Product:         line.Name,
					SourceReceiptNo: r.ReceiptNo,
				}
			}

			mv.BalanceQty = st.Quantity
			mv.BalanceAvgCost = st.AvgUnitCost
			mv.BalanceTotal = st.TotalCost
			states[line.Name] = st
			if inWindow {
				movements = append(movements, mv)
			}
		}
	}

	// A window with no in-window receipts still owes its opening rows.
	if !opened {
		movements = append(movements, openingMovements(states, productOrder)...)
	}

	return CostingResult{Movements: movements, States: states}
}

// openingMovements renders the pre-window balance of every product still
// holding stock. Openings carry no date and always sort first; product name
// order keeps the output deterministic.
func openingMovements(states map[string]models.InventoryState, productOrder []string) []models.Movement {
	names := make([]string, 0, len(productOrder))
	names = append(names, productOrder...)
	sort.Strings(names)

	var out []models.Movement
	for _, name := range names {
		st := states[name]
		if st.Quantity.IsZero() {
			continue
		}
		out = append(out, models.Movement{
			Type:           models.MovementOpening,
			Qty:            st.Quantity,
			UnitCost:       st.AvgUnitCost,
			Total:          st.TotalCost,
			Desc:           "ยอดยกมา",
			BalanceQty:     st.Quantity,
			BalanceAvgCost: st.AvgUnitCost,
			BalanceTotal:   st.TotalCost,
			Product:        name,
		})
	}
	return out
}

// OutMovementTotalsByReceipt sums out-movement totals per originating
// receipt. This is the lookup the mapper's second pass resolves pending
// COGS postings against.
func OutMovementTotalsByReceipt(movements []models.Movement) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, mv := range movements {
		if mv.Type != models.MovementOut || mv.SourceReceiptNo == "" {
			continue
		}
		totals[mv.SourceReceiptNo] = utils.Round3(totals[mv.SourceReceiptNo].Add(mv.Total))
	}
	return totals
}
