package transaction

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/advisor/date"
)

func TestLoadSortsByDate(t *testing.T) {
	input := strings.Join([]string{
		`{"command":"buy","date":"2025-06-03","security":"AAPL","quantity":10,"price":100}`,
		`{"command":"deposit","date":"2025-06-01","amount":10000,"currency":"USD"}`,
		`{"command":"sell","date":"2025-06-03","security":"AAPL","quantity":5,"price":110}`,
	}, "\n")

	txs, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 3 {
		t.Fatalf("loaded %d transactions, want 3", len(txs))
	}
	if txs[0].What() != CmdDeposit {
		t.Errorf("first = %s, want the earliest deposit", txs[0].What())
	}
	// Same-day movements keep their file order: the buy stays before the sell.
	if txs[1].What() != CmdBuy || txs[2].What() != CmdSell {
		t.Errorf("same-day order = %s, %s, want buy, sell", txs[1].What(), txs[2].What())
	}
}

func TestLoadUnknownCommand(t *testing.T) {
	if _, err := Load(strings.NewReader(`{"command":"convert","date":"2025-06-01"}`)); err == nil {
		t.Error("unknown command should fail loading")
	}
}

func TestLoadSkipsEmptyLines(t *testing.T) {
	input := "\n" + `{"command":"deposit","date":"2025-06-01","amount":100,"currency":"USD"}` + "\n\n"
	txs, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 {
		t.Errorf("loaded %d transactions, want 1", len(txs))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	day := date.New(2025, 6, 2)
	txs := []Transaction{
		Deposit{Base: Base{Command: CmdDeposit, Date: day}, Amount: 10000, Currency: "USD"},
		Buy{Base: Base{Command: CmdBuy, Date: day.Add(1), Memo: "momentum entry", DecisionID: 3}, Security: "AAPL", Quantity: 10, Price: 100},
		Dividend{Base: Base{Command: CmdDividend, Date: day.Add(30)}, Security: "AAPL", Amount: 25},
		Withdraw{Base: Base{Command: CmdWithdraw, Date: day.Add(40)}, Amount: 500, Currency: "USD"},
	}

	var buf bytes.Buffer
	if err := Save(&buf, txs); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(txs) {
		t.Fatalf("loaded %d transactions, want %d", len(loaded), len(txs))
	}

	buy, ok := loaded[1].(Buy)
	if !ok {
		t.Fatalf("loaded[1] = %T, want Buy", loaded[1])
	}
	if buy.Security != "AAPL" || buy.Quantity != 10 || buy.Price != 100 {
		t.Errorf("buy round trip = %+v", buy)
	}
	if buy.DecisionID != 3 {
		t.Errorf("decision link = %d, want 3", buy.DecisionID)
	}
	if buy.Rationale() != "momentum entry" {
		t.Errorf("memo = %q, want the rationale", buy.Rationale())
	}
}
