package node

import "testing"

func TestNewEmptyNodeHasNoChain(t *testing.T) {
	n, err := New(0, nil, 5000000000)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Chain()) != 0 {
		t.Error("expected empty chain for a node with no genesis")
	}
	if n.Balance() != 0 {
		t.Error("expected zero balance")
	}
}

func TestCreateBlockRequiresValidator(t *testing.T) {
	n, err := New(0, nil, 5000000000)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := n.CreateBlock(1, 1000); err == nil {
		t.Error("expected non-validator to be refused block creation")
	}
}

func TestCreateBlockMinesGenesis(t *testing.T) {
	n, err := New(0, nil, 5000000000)
	if err != nil {
		t.Fatal(err)
	}
	n.IsValidator = true

	b, err := n.CreateBlock(1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if b.Index != 0 {
		t.Errorf("expected genesis index 0, got %d", b.Index)
	}
	if len(b.Transactions) != 1 {
		t.Errorf("expected only the coinbase, got %d transactions", len(b.Transactions))
	}
	if !b.Transactions[0].IsCoinbase() {
		t.Error("first transaction must be a coinbase")
	}
}

func TestAddConnectionIgnoresSelfAndDuplicates(t *testing.T) {
	n, err := New(0, nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	n.AddConnection(0)
	n.AddConnection(1)
	n.AddConnection(1)

	if len(n.Connections) != 1 {
		t.Errorf("expected exactly one connection, got %d", len(n.Connections))
	}
}

func TestAddBlockFromNetworkRejectsWrongIndex(t *testing.T) {
	n, err := New(0, nil, 5000000000)
	if err != nil {
		t.Fatal(err)
	}
	n.IsValidator = true
	genesis, err := n.CreateBlock(1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	n.Blockchain = append(n.Blockchain, genesis)

	other, err := New(1, nil, 5000000000)
	if err != nil {
		t.Fatal(err)
	}
	other.IsValidator = true
	wrong, err := other.CreateBlock(1, 2000)
	if err != nil {
		t.Fatal(err)
	}
	wrong.Index = 5

	if n.AddBlockFromNetwork(wrong, 1) {
		t.Error("expected block with wrong index to be rejected")
	}
}
