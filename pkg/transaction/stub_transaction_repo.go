package transaction

import (
	"context"
	"time"
)

type RepositoryStub struct {
	nextId       int
	transactions map[int]Transaction
}

func NewStubTransactionRepo() *RepositoryStub {
	return &RepositoryStub{transactions: map[int]Transaction{}}
}

func (s *RepositoryStub) Store(ctx context.Context, tx Transaction) (int, error) {
	s.nextId++
	tx.ID = s.nextId
	tx.CreatedAt = time.Now()
	s.transactions[tx.ID] = tx
	return tx.ID, nil
}

func (s *RepositoryStub) GetById(ctx context.Context, householdId int, transactionId int) (Transaction, error) {
	if tx, ok := s.transactions[transactionId]; ok && tx.HouseholdID == householdId {
		return tx, nil
	}
	return Transaction{}, ErrTransactionNotFound
}

func (s *RepositoryStub) List(ctx context.Context, householdId int, from time.Time, to time.Time, categoryId int) ([]Transaction, error) {
	var transactions []Transaction
	for id := s.nextId; id >= 1; id-- {
		tx, ok := s.transactions[id]
		if !ok || tx.HouseholdID != householdId {
			continue
		}
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		if categoryId != 0 && tx.CategoryID != categoryId {
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (s *RepositoryStub) Update(ctx context.Context, tx Transaction) (bool, error) {
	if existing, ok := s.transactions[tx.ID]; ok && existing.HouseholdID == tx.HouseholdID {
		tx.CreatedAt = existing.CreatedAt
		s.transactions[tx.ID] = tx
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, householdId int, transactionId int) (bool, error) {
	if tx, ok := s.transactions[transactionId]; ok && tx.HouseholdID == householdId {
		delete(s.transactions, transactionId)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.transactions = map[int]Transaction{}
	s.nextId = 0
}
