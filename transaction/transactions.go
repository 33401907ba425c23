package transaction

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/etnz/advisor/date"
)

// CommandType is a typed string for identifying transaction commands.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdDividend CommandType = "dividend"
	CmdDeposit  CommandType = "deposit"
	CmdWithdraw CommandType = "withdraw"
)

// Transaction is one movement in the ledger.
type Transaction interface {
	What() CommandType
	When() date.Date
	Rationale() string
}

// Base contains fields common to all transaction types.
type Base struct {
	Command CommandType `json:"command"`
	Date    date.Date   `json:"date"`
	// Memo carries the rationale of the movement, typically the reasoning of
	// the decision that triggered it.
	Memo string `json:"memo,omitempty"`
	// DecisionID links the movement back to the logged decision that was
	// executed, 0 for manual movements.
	DecisionID int `json:"decision_id,omitempty"`
}

func (b Base) What() CommandType { return b.Command }
func (b Base) When() date.Date   { return b.Date }
func (b Base) Rationale() string { return b.Memo }

// Buy records acquiring shares of a security.
type Buy struct {
	Base
	Security string  `json:"security"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Sell records disposing of shares of a security.
type Sell struct {
	Base
	Security string  `json:"security"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Dividend records a dividend payment.
type Dividend struct {
	Base
	Security string  `json:"security"`
	Amount   float64 `json:"amount"`
}

// Deposit records a cash deposit.
type Deposit struct {
	Base
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Withdraw records a cash withdrawal.
type Withdraw struct {
	Base
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Load reads a JSONL stream, decodes each line into the transaction struct
// named by its command, and returns the transactions sorted by date. The sort
// is stable so same-day movements keep their relative order.
func Load(r io.Reader) ([]Transaction, error) {
	var transactions []Transaction
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(line), err)
		}

		var decoded Transaction
		var err error
		switch identifier.Command {
		case CmdBuy:
			var tx Buy
			err = json.Unmarshal(line, &tx)
			decoded = tx
		case CmdSell:
			var tx Sell
			err = json.Unmarshal(line, &tx)
			decoded = tx
		case CmdDividend:
			var tx Dividend
			err = json.Unmarshal(line, &tx)
			decoded = tx
		case CmdDeposit:
			var tx Deposit
			err = json.Unmarshal(line, &tx)
			decoded = tx
		case CmdWithdraw:
			var tx Withdraw
			err = json.Unmarshal(line, &tx)
			decoded = tx
		default:
			err = fmt.Errorf("unknown transaction command: %q", identifier.Command)
		}
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, decoded)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].When().Before(transactions[j].When())
	})
	return transactions, nil
}

// Save reorders transactions by date and persists them as JSONL.
func Save(w io.Writer, transactions []Transaction) error {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].When().Before(transactions[j].When())
	})
	for _, tx := range transactions {
		buf, err := json.Marshal(tx)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(buf, '\n')); err != nil {
			return err
		}
	}
	return nil
}
