package components

import (
	"context"
	"io"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/directory"
	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/domain/outbox"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*transaction.Transaction, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepo) WithTx(tx pgx.Tx) transaction.Repository {
	args := m.Called(tx)
	return args.Get(0).(transaction.Repository)
}

type MockFiatTxRepo struct {
	mock.Mock
}

func (m *MockFiatTxRepo) Create(ctx context.Context, txn *fiatwallet.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockFiatTxRepo) GetByID(ctx context.Context, id uuid.UUID) (*fiatwallet.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiatwallet.Transaction), args.Error(1)
}

func (m *MockFiatTxRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*fiatwallet.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiatwallet.Transaction), args.Error(1)
}

func (m *MockFiatTxRepo) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*fiatwallet.Transaction, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiatwallet.Transaction), args.Error(1)
}

func (m *MockFiatTxRepo) WithTx(tx pgx.Tx) fiatwallet.TransactionRepository {
	args := m.Called(tx)
	return args.Get(0).(fiatwallet.TransactionRepository)
}

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) LockForUpdate(ctx context.Context, userID uuid.UUID, currency string) (*fiatwallet.Wallet, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiatwallet.Wallet), args.Error(1)
}

func (m *MockWalletRepo) UpdateBalance(ctx context.Context, id uuid.UUID, delta int64, version int) error {
	args := m.Called(ctx, id, delta, version)
	return args.Error(0)
}

func (m *MockWalletRepo) WithTx(tx pgx.Tx) fiatwallet.WalletRepository {
	args := m.Called(tx)
	return args.Get(0).(fiatwallet.WalletRepository)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

type MockHistoryRepo struct {
	mock.Mock
}

func (m *MockHistoryRepo) Append(ctx context.Context, event *history.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockHistoryRepo) ListByEntry(ctx context.Context, kind shared.EntryKind, entryID uuid.UUID, limit int) ([]*history.StatusEvent, error) {
	args := m.Called(ctx, kind, entryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.StatusEvent), args.Error(1)
}

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) Insert(ctx context.Context, instruction *notification.Instruction) error {
	args := m.Called(ctx, instruction)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) NotifyInApp(ctx context.Context, instruction *notification.Instruction) error {
	args := m.Called(ctx, instruction)
	return args.Error(0)
}

func (m *MockDispatcher) NotifyPush(ctx context.Context, instruction *notification.PushInstruction) error {
	args := m.Called(ctx, instruction)
	return args.Error(0)
}

func (m *MockDispatcher) SendEmail(ctx context.Context, instruction *notification.EmailInstruction) error {
	args := m.Called(ctx, instruction)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindUser(ctx context.Context, userID uuid.UUID) (*directory.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.User), args.Error(1)
}

type MockProfileDirectory struct {
	mock.Mock
}

func (m *MockProfileDirectory) FindProfile(ctx context.Context, userID uuid.UUID) (*directory.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Profile), args.Error(1)
}

type MockTransitionNotifier struct {
	mock.Mock
}

func (m *MockTransitionNotifier) NotifyTransition(ctx context.Context, transition *service.Transition, policy service.NotificationPolicy) {
	m.Called(ctx, transition, policy)
}

type MockEscrowRepo struct {
	mock.Mock
}

func (m *MockEscrowRepo) GetHeldAmount(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, transactionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEscrowRepo) Release(ctx context.Context, transactionID uuid.UUID) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockEscrowRepo) WithTx(tx pgx.Tx) escrow.Repository {
	args := m.Called(tx)
	return args.Get(0).(escrow.Repository)
}
