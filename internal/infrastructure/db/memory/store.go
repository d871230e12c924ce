// Package memory implements the record store on process-lifetime maps.
//
// All collections share one RWMutex: reads run concurrently, writes are
// serialized, and a decision touches the expense and approval collections
// under a single write lock.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/pkg/clock"
)

const (
	userPrefix     = "user-"
	expensePrefix  = "exp-"
	approvalPrefix = "approval-"
)

// Store owns the users, expenses and approvals collections.
type Store struct {
	mu    sync.RWMutex
	clock clock.Clock

	users     map[string]*domain.User
	expenses  map[string]*domain.Expense
	approvals map[string]*domain.Approval

	// insertion order, used for deterministic listing
	userOrder     []string
	expenseOrder  []string
	approvalOrder []string

	nextUser     int
	nextExpense  int
	nextApproval int
}

// NewStore returns an empty store stamping times with clk.
func NewStore(clk clock.Clock) *Store {
	return &Store{
		clock:        clk,
		users:        make(map[string]*domain.User),
		expenses:     make(map[string]*domain.Expense),
		approvals:    make(map[string]*domain.Approval),
		nextUser:     1,
		nextExpense:  1,
		nextApproval: 1,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Expenses returns the expense repository view of the store.
func (s *Store) Expenses() *ExpenseRepository { return &ExpenseRepository{s: s} }

// Approvals returns the approval repository view of the store.
func (s *Store) Approvals() *ApprovalRepository { return &ApprovalRepository{s: s} }

// Ping always succeeds; it lets the store take part in readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

// Seed loads users and expenses with their IDs intact and moves the ID
// counters past the highest seeded sequence. Existing IDs are overwritten.
func (s *Store) Seed(_ context.Context, users []*domain.User, expenses []*domain.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		n, err := sequenceOf(u.ID, userPrefix)
		if err != nil {
			return err
		}
		if _, exists := s.users[u.ID]; !exists {
			s.userOrder = append(s.userOrder, u.ID)
		}
		clone := *u
		s.users[u.ID] = &clone
		if n >= s.nextUser {
			s.nextUser = n + 1
		}
	}
	for _, e := range expenses {
		n, err := sequenceOf(e.ID, expensePrefix)
		if err != nil {
			return err
		}
		if _, exists := s.expenses[e.ID]; !exists {
			s.expenseOrder = append(s.expenseOrder, e.ID)
		}
		s.expenses[e.ID] = e.Clone()
		if n >= s.nextExpense {
			s.nextExpense = n + 1
		}
	}
	return nil
}

func sequenceOf(id, prefix string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || !strings.HasPrefix(id, prefix) {
		return 0, fmt.Errorf("seed: id %q does not match %s<n>", id, prefix)
	}
	return n, nil
}

// The helpers below expect s.mu to be held.

func (s *Store) newUserID() string {
	id := userPrefix + strconv.Itoa(s.nextUser)
	s.nextUser++
	return id
}

func (s *Store) newExpenseID() string {
	id := expensePrefix + strconv.Itoa(s.nextExpense)
	s.nextExpense++
	return id
}

func (s *Store) newApprovalID() string {
	id := approvalPrefix + strconv.Itoa(s.nextApproval)
	s.nextApproval++
	return id
}

func (s *Store) insertApproval(a *domain.Approval) *domain.Approval {
	stored := *a
	stored.ID = s.newApprovalID()
	stored.Timestamp = s.clock.Now()
	s.approvals[stored.ID] = &stored
	s.approvalOrder = append(s.approvalOrder, stored.ID)
	out := stored
	return &out
}

func (s *Store) filterExpenses(keep func(*domain.Expense) bool) []*domain.Expense {
	out := make([]*domain.Expense, 0)
	for _, id := range s.expenseOrder {
		e := s.expenses[id]
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
