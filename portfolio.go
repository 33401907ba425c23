package advisor

import (
	"fmt"
	"io"

	"github.com/etnz/advisor/date"
	"github.com/etnz/advisor/transaction"
)

// Position is an open holding in the portfolio, valued at the last price the
// caller marked it with.
type Position struct {
	Symbol string
	Shares Quantity
	// CostBasis is the total amount paid for the open shares, average cost.
	CostBasis Money
	LastPrice Money
}

// Value is the current market value of the position.
func (p *Position) Value() Money { return p.LastPrice.Mul(p.Shares) }

// PnL is the unrealized profit or loss of the position.
func (p *Position) PnL() Money { return p.Value().Sub(p.CostBasis) }

// ReturnPercent is the unrealized return relative to the cost basis.
func (p *Position) ReturnPercent() Percent {
	if p.CostBasis.IsZero() {
		return 0
	}
	return Percent(p.PnL().AsFloat() / p.CostBasis.AsFloat() * 100)
}

// Portfolio is the replayed state of a transaction ledger: a cash balance and
// the open positions. Mutations append to the ledger and update the state in
// the same step, so saving the ledger always reproduces the state.
type Portfolio struct {
	currency     string
	cash         Money
	positions    map[string]*Position
	transactions []transaction.Transaction
}

// NewPortfolio returns an empty portfolio holding cash in the given currency.
func NewPortfolio(currency string) *Portfolio {
	return &Portfolio{
		currency:  currency,
		cash:      M(0, currency),
		positions: make(map[string]*Position),
	}
}

// LoadPortfolio replays a transaction ledger into a portfolio.
func LoadPortfolio(r io.Reader, currency string) (*Portfolio, error) {
	txs, err := transaction.Load(r)
	if err != nil {
		return nil, err
	}
	p := NewPortfolio(currency)
	for _, tx := range txs {
		if err := p.apply(tx); err != nil {
			return nil, fmt.Errorf("replaying ledger: %w", err)
		}
	}
	return p, nil
}

// Save persists the ledger as JSONL.
func (p *Portfolio) Save(w io.Writer) error {
	return transaction.Save(w, p.transactions)
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() Money { return p.cash }

// Currency returns the portfolio reporting currency.
func (p *Portfolio) Currency() string { return p.currency }

// Position returns the open position for a symbol, nil if none.
func (p *Portfolio) Position(symbol string) *Position { return p.positions[symbol] }

// Positions returns the open positions. The map is live, callers must not
// mutate it.
func (p *Portfolio) Positions() map[string]*Position { return p.positions }

// Transactions returns the ledger in replay order.
func (p *Portfolio) Transactions() []transaction.Transaction { return p.transactions }

// apply updates the state for one transaction without recording it.
func (p *Portfolio) apply(tx transaction.Transaction) error {
	switch t := tx.(type) {
	case transaction.Deposit:
		p.cash = p.cash.Add(M(t.Amount, t.Currency))
	case transaction.Withdraw:
		amount := M(t.Amount, t.Currency)
		if p.cash.LessThan(amount) {
			return fmt.Errorf("withdraw %s exceeds cash balance %s", amount, p.cash)
		}
		p.cash = p.cash.Sub(amount)
	case transaction.Dividend:
		p.cash = p.cash.Add(M(t.Amount, p.currency))
	case transaction.Buy:
		cost := M(t.Price, p.currency).Mul(Q(t.Quantity))
		if p.cash.LessThan(cost) {
			return fmt.Errorf("buy %s for %s exceeds cash balance %s", t.Security, cost, p.cash)
		}
		p.cash = p.cash.Sub(cost)
		pos := p.positions[t.Security]
		if pos == nil {
			pos = &Position{Symbol: t.Security, CostBasis: M(0, p.currency)}
			p.positions[t.Security] = pos
		}
		pos.Shares = pos.Shares.Add(Q(t.Quantity))
		pos.CostBasis = pos.CostBasis.Add(cost)
		pos.LastPrice = M(t.Price, p.currency)
	case transaction.Sell:
		pos := p.positions[t.Security]
		qty := Q(t.Quantity)
		if pos == nil || pos.Shares.LessThan(qty) {
			return fmt.Errorf("sell %v %s exceeds held quantity", qty, t.Security)
		}
		// Average cost: the basis leaves proportionally to the shares sold.
		sold := pos.CostBasis.Mul(qty).Div(pos.Shares)
		pos.CostBasis = pos.CostBasis.Sub(sold)
		pos.Shares = pos.Shares.Sub(qty)
		pos.LastPrice = M(t.Price, p.currency)
		p.cash = p.cash.Add(M(t.Price, p.currency).Mul(qty))
		if pos.Shares.IsZero() {
			delete(p.positions, t.Security)
		}
	default:
		return fmt.Errorf("unknown transaction %T", tx)
	}
	return nil
}

// record applies a transaction and appends it to the ledger.
func (p *Portfolio) record(tx transaction.Transaction) error {
	if err := p.apply(tx); err != nil {
		return err
	}
	p.transactions = append(p.transactions, tx)
	return nil
}

// Deposit adds cash to the portfolio.
func (p *Portfolio) Deposit(day date.Date, amount float64, memo string) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %g", amount)
	}
	return p.record(transaction.Deposit{
		Base:     transaction.Base{Command: transaction.CmdDeposit, Date: day, Memo: memo},
		Amount:   amount,
		Currency: p.currency,
	})
}

// Withdraw removes cash from the portfolio.
func (p *Portfolio) Withdraw(day date.Date, amount float64, memo string) error {
	if amount <= 0 {
		return fmt.Errorf("withdraw amount must be positive, got %g", amount)
	}
	return p.record(transaction.Withdraw{
		Base:     transaction.Base{Command: transaction.CmdWithdraw, Date: day, Memo: memo},
		Amount:   amount,
		Currency: p.currency,
	})
}

// Dividend records a dividend payment for a held security.
func (p *Portfolio) Dividend(day date.Date, symbol string, amount float64, memo string) error {
	if amount <= 0 {
		return fmt.Errorf("dividend amount must be positive, got %g", amount)
	}
	return p.record(transaction.Dividend{
		Base:     transaction.Base{Command: transaction.CmdDividend, Date: day, Memo: memo},
		Security: symbol,
		Amount:   amount,
	})
}

// Buy opens or extends a position.
func (p *Portfolio) Buy(day date.Date, symbol string, quantity, price float64, memo string, decisionID int) error {
	if quantity <= 0 || price <= 0 {
		return fmt.Errorf("buy %s needs positive quantity and price", symbol)
	}
	return p.record(transaction.Buy{
		Base:     transaction.Base{Command: transaction.CmdBuy, Date: day, Memo: memo, DecisionID: decisionID},
		Security: symbol,
		Quantity: quantity,
		Price:    price,
	})
}

// Sell reduces or closes a position.
func (p *Portfolio) Sell(day date.Date, symbol string, quantity, price float64, memo string, decisionID int) error {
	if quantity <= 0 || price <= 0 {
		return fmt.Errorf("sell %s needs positive quantity and price", symbol)
	}
	return p.record(transaction.Sell{
		Base:     transaction.Base{Command: transaction.CmdSell, Date: day, Memo: memo, DecisionID: decisionID},
		Security: symbol,
		Quantity: quantity,
		Price:    price,
	})
}

// MarkPrice updates the valuation price of an open position.
func (p *Portfolio) MarkPrice(symbol string, price float64) {
	if pos := p.positions[symbol]; pos != nil {
		pos.LastPrice = M(price, p.currency)
	}
}

// TotalValue is cash plus the market value of all open positions.
func (p *Portfolio) TotalValue() Money {
	total := p.cash
	for _, pos := range p.positions {
		total = total.Add(pos.Value())
	}
	return total
}

// PnL is the total unrealized profit or loss across open positions.
func (p *Portfolio) PnL() Money {
	total := M(0, p.currency)
	for _, pos := range p.positions {
		total = total.Add(pos.PnL())
	}
	return total
}

// Weights returns each position's share of the portfolio total value. They do
// not sum to 1 when cash is held.
func (p *Portfolio) Weights() map[string]float64 {
	total := p.TotalValue().AsFloat()
	weights := make(map[string]float64, len(p.positions))
	if total <= 0 {
		return weights
	}
	for symbol, pos := range p.positions {
		weights[symbol] = pos.Value().AsFloat() / total
	}
	return weights
}

// ExecuteDecision turns an accepted decision into a ledger movement. The
// decision must carry a known price: execution never substitutes a
// placeholder, it fails with ErrDataUnavailable instead. The quantity comes
// from the decision, falling back to its sizing for buys.
func (p *Portfolio) ExecuteDecision(d *Decision) error {
	if d.Status != Accepted {
		return fmt.Errorf("execute decision %d (%s): decision is %s, not %s", d.ID, d.Symbol, d.Status, Accepted)
	}
	if d.Price == nil || *d.Price <= 0 {
		return fmt.Errorf("execute decision %d (%s): no known price: %w", d.ID, d.Symbol, ErrDataUnavailable)
	}
	quantity := 0.0
	if d.Quantity != nil {
		quantity = *d.Quantity
	} else if d.Type == Buy && d.Sizing != nil {
		quantity = float64(d.Sizing.RecommendedShares)
	}
	if quantity <= 0 {
		return fmt.Errorf("execute decision %d (%s): no quantity to trade", d.ID, d.Symbol)
	}

	var err error
	switch d.Type {
	case Buy:
		err = p.Buy(date.Today(), d.Symbol, quantity, *d.Price, d.Reasoning, d.ID)
	case Sell:
		err = p.Sell(date.Today(), d.Symbol, quantity, *d.Price, d.Reasoning, d.ID)
	default:
		return fmt.Errorf("execute decision %d (%s): %s is not executable", d.ID, d.Symbol, d.Type)
	}
	if err != nil {
		return err
	}
	return d.MarkExecuted()
}
