// Package idgen produces identifiers for customers, accounts and transactions.
// The ledger core never builds ids itself; it is handed a Generator.
package idgen

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Strategy names accepted by New
const (
	StrategySequence = "sequence"
	StrategyUUID     = "uuid"
)

// Generator hands out unique ids per entity family
type Generator interface {
	CustomerID() string
	AccountID() string
	TransactionID() string
}

// New returns the generator for the given strategy
func New(strategy string) (Generator, error) {
	switch strategy {
	case "", StrategySequence:
		return NewSequenceGenerator(), nil
	case StrategyUUID:
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

// SequenceGenerator issues prefixed monotonic ids: CUST1000, ACC2000, TXN3000, ...
type SequenceGenerator struct {
	customers    atomic.Int64
	accounts     atomic.Int64
	transactions atomic.Int64
}

// Starting points of each sequence
const (
	customerSeqStart    = 1000
	accountSeqStart     = 2000
	transactionSeqStart = 3000
)

// NewSequenceGenerator creates a generator whose sequences start at their usual offsets
func NewSequenceGenerator() *SequenceGenerator {
	g := &SequenceGenerator{}
	g.customers.Store(customerSeqStart)
	g.accounts.Store(accountSeqStart)
	g.transactions.Store(transactionSeqStart)
	return g
}

func (g *SequenceGenerator) CustomerID() string {
	return "CUST" + strconv.FormatInt(g.customers.Add(1)-1, 10)
}

func (g *SequenceGenerator) AccountID() string {
	return "ACC" + strconv.FormatInt(g.accounts.Add(1)-1, 10)
}

func (g *SequenceGenerator) TransactionID() string {
	return "TXN" + strconv.FormatInt(g.transactions.Add(1)-1, 10)
}

// UUIDGenerator issues random UUIDv4 ids with a family prefix
type UUIDGenerator struct{}

func (UUIDGenerator) CustomerID() string    { return "cust_" + uuid.NewString() }
func (UUIDGenerator) AccountID() string     { return "acc_" + uuid.NewString() }
func (UUIDGenerator) TransactionID() string { return "txn_" + uuid.NewString() }
