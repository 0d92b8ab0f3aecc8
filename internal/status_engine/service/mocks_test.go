package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/outbox"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*transaction.Transaction, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return m
}

type MockFiatWalletTransactionRepository struct {
	mock.Mock
}

func (m *MockFiatWalletTransactionRepository) Create(ctx context.Context, txn *fiatwallet.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockFiatWalletTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*fiatwallet.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiatwallet.Transaction), args.Error(1)
}

func (m *MockFiatWalletTransactionRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*fiatwallet.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiatwallet.Transaction), args.Error(1)
}

func (m *MockFiatWalletTransactionRepository) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*fiatwallet.Transaction, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiatwallet.Transaction), args.Error(1)
}

func (m *MockFiatWalletTransactionRepository) WithTx(tx pgx.Tx) fiatwallet.TransactionRepository {
	return m
}

type MockEscrowRepository struct {
	mock.Mock
}

func (m *MockEscrowRepository) GetHeldAmount(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEscrowRepository) Release(ctx context.Context, transactionID uuid.UUID) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockEscrowRepository) WithTx(tx pgx.Tx) escrow.Repository {
	return m
}

type MockTransitionNotifier struct {
	mock.Mock
}

func (m *MockTransitionNotifier) NotifyTransition(ctx context.Context, transition *Transition, policy NotificationPolicy) {
	m.Called(ctx, transition, policy)
}

// recordingHistory keeps every event it was given
type recordingHistory struct {
	mu     sync.Mutex
	events []*history.StatusEvent
}

func (h *recordingHistory) Record(ctx context.Context, event *history.StatusEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHistory) Events() []*history.StatusEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*history.StatusEvent(nil), h.events...)
}

type MockRefundManager struct {
	mock.Mock
}

func (m *MockRefundManager) CreateRefund(ctx context.Context, tx pgx.Tx, original *transaction.Transaction, originalLeg *fiatwallet.Transaction, held int64) (*Refund, error) {
	args := m.Called(ctx, tx, original, originalLeg, held)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Refund), args.Error(1)
}

type MockOutboxManager struct {
	mock.Mock
}

func (m *MockOutboxManager) CreateReleaseEntry(ctx context.Context, tx pgx.Tx, original *transaction.Transaction, refund *Refund, heldAmount int64) (*outbox.Message, error) {
	args := m.Called(ctx, tx, original, refund, heldAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

type MockEscrowReleaser struct {
	mock.Mock
}

func (m *MockEscrowReleaser) Release(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// staged is a fake store that can roll back to its state before a DB transaction
type staged interface {
	snapshot() func()
}

// fakeTxExecutor runs fn with a nil tx and undoes the staged stores when fn fails
type fakeTxExecutor struct {
	stores     []staged
	committed  bool
	rolledBack bool
}

func (e *fakeTxExecutor) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	restores := make([]func(), 0, len(e.stores))
	for _, s := range e.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		e.rolledBack = true
		return err
	}
	e.committed = true
	return nil
}

// memoryTransactions is a transaction.Repository over a map that applies StatusChanges like the SQL does
type memoryTransactions struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]transaction.Transaction
	updates   int
	createErr error
}

func newMemoryTransactions(rows ...*transaction.Transaction) *memoryTransactions {
	m := &memoryTransactions{rows: make(map[uuid.UUID]transaction.Transaction)}
	for _, r := range rows {
		m.rows[r.ID] = *r
	}
	return m
}

func (m *memoryTransactions) Create(ctx context.Context, txn *transaction.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.rows[txn.ID] = *txn
	return nil
}

func (m *memoryTransactions) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound{TransactionID: id}
	}
	return &row, nil
}

func (m *memoryTransactions) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound{TransactionID: id}
	}
	if changes.Status != nil {
		row.Status = *changes.Status
	}
	if changes.ProcessedAt != nil {
		row.ProcessedAt = changes.ProcessedAt
	}
	if changes.CompletedAt != nil {
		row.CompletedAt = changes.CompletedAt
	}
	if changes.FailedAt != nil {
		row.FailedAt = changes.FailedAt
	}
	if changes.FailureReason != nil {
		row.FailureReason = changes.FailureReason
	}
	if changes.ProviderReference != nil {
		row.ExternalReference = changes.ProviderReference
	}
	if changes.Metadata != nil {
		row.Metadata = changes.Metadata
	}
	if v, ok := changes.BalanceAfter.Get(); ok {
		row.BalanceAfter = v
	}
	m.updates++
	m.rows[id] = row
	return &row, nil
}

func (m *memoryTransactions) WithTx(tx pgx.Tx) transaction.Repository {
	return m
}

func (m *memoryTransactions) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make(map[uuid.UUID]transaction.Transaction, len(m.rows))
	for k, v := range m.rows {
		saved[k] = v
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.rows = saved
	}
}

func (m *memoryTransactions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memoryFiatTransactions is the wallet-leg counterpart of memoryTransactions
type memoryFiatTransactions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]fiatwallet.Transaction
}

func newMemoryFiatTransactions(rows ...*fiatwallet.Transaction) *memoryFiatTransactions {
	m := &memoryFiatTransactions{rows: make(map[uuid.UUID]fiatwallet.Transaction)}
	for _, r := range rows {
		m.rows[r.ID] = *r
	}
	return m
}

func (m *memoryFiatTransactions) Create(ctx context.Context, txn *fiatwallet.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[txn.ID] = *txn
	return nil
}

func (m *memoryFiatTransactions) GetByID(ctx context.Context, id uuid.UUID) (*fiatwallet.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, fiatwallet.ErrTransactionNotFound{ID: id}
	}
	return &row, nil
}

func (m *memoryFiatTransactions) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*fiatwallet.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.TransactionID == transactionID {
			found := row
			return &found, nil
		}
	}
	return nil, fiatwallet.ErrTransactionNotFound{}
}

func (m *memoryFiatTransactions) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*fiatwallet.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, fiatwallet.ErrTransactionNotFound{ID: id}
	}
	if changes.Status != nil {
		row.Status = *changes.Status
	}
	if changes.ProcessedAt != nil {
		row.ProcessedAt = changes.ProcessedAt
	}
	if changes.CompletedAt != nil {
		row.CompletedAt = changes.CompletedAt
	}
	if changes.FailedAt != nil {
		row.FailedAt = changes.FailedAt
	}
	if changes.FailureReason != nil {
		row.FailureReason = changes.FailureReason
	}
	if changes.ProviderReference != nil {
		row.ProviderReference = changes.ProviderReference
	}
	if changes.ProviderRequestRef != nil {
		row.ProviderRequestRef = changes.ProviderRequestRef
	}
	if changes.Metadata != nil {
		row.ProviderMetadata = changes.Metadata
	}
	if v, ok := changes.BalanceAfter.Get(); ok {
		row.BalanceAfter = v
	}
	m.rows[id] = row
	return &row, nil
}

func (m *memoryFiatTransactions) WithTx(tx pgx.Tx) fiatwallet.TransactionRepository {
	return m
}

func (m *memoryFiatTransactions) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make(map[uuid.UUID]fiatwallet.Transaction, len(m.rows))
	for k, v := range m.rows {
		saved[k] = v
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.rows = saved
	}
}
