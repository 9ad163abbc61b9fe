package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func storedTxn(id string, txnType domain.TransactionType, amount string, status domain.TransactionStatus) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		UserID:      "user-1",
		Type:        txnType,
		Amount:      decimal.RequireFromString(amount),
		Date:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Category:    "Outros",
		Description: "stored " + id,
		Status:      status,
		AuditFields: domain.AuditFields{CreatedAt: fixedNow, LastUpdatedAt: fixedNow},
	}
}

func expenseInput(amount string) domain.NewTransactionInput {
	return domain.NewTransactionInput{
		Type:        domain.Expense,
		Amount:      decimal.RequireFromString(amount),
		Date:        time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Category:    "Alimentação",
		Description: "Mercado",
		Status:      domain.StatusPending,
	}
}

type TransactionStoreTestSuite struct {
	suite.Suite
	ctx       context.Context
	repo      *MockTransactionRepository
	readiness *stubReadiness
	notifier  *recordingNotifier
	store     *services.TransactionStore
}

func (s *TransactionStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = new(MockTransactionRepository)
	s.readiness = &stubReadiness{}
	s.notifier = &recordingNotifier{}
	s.store = s.newStore("user-1")
}

func (s *TransactionStoreTestSuite) newStore(userID string, opts ...services.TransactionStoreOption) *services.TransactionStore {
	opts = append([]services.TransactionStoreOption{
		services.WithStoreNotifier(s.notifier),
		services.WithIDGenerator(func() string { return "txn-new" }),
	}, opts...)
	store := services.NewTransactionStore(userID, s.repo, s.readiness, opts...)
	store.Now = func() time.Time { return fixedNow }
	return store
}

// seed loads rows into the store through a first fetch.
func (s *TransactionStoreTestSuite) seed(rows ...domain.Transaction) {
	s.repo.On("ListTransactions", mock.Anything, "user-1").Return(rows, nil).Once()
	_, err := s.store.Fetch(s.ctx)
	s.Require().NoError(err)
}

func ids(txns []domain.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func TestTransactionStoreTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionStoreTestSuite))
}

func (s *TransactionStoreTestSuite) TestFetch_NoUser() {
	store := s.newStore("")

	got, err := store.Fetch(s.ctx)

	s.NoError(err)
	s.NotNil(got)
	s.Empty(got)
	s.False(store.IsLoading())
	s.Zero(s.readiness.calls)
	s.repo.AssertNotCalled(s.T(), "ListTransactions", mock.Anything, mock.Anything)
}

func (s *TransactionStoreTestSuite) TestFetch_KeepsRemoteOrder() {
	s.seed(
		storedTxn("newest", domain.Expense, "10", domain.StatusPaid),
		storedTxn("older", domain.Income, "20", domain.StatusPending),
	)

	s.Equal([]string{"newest", "older"}, ids(s.store.Transactions()))
	s.False(s.store.IsLoading())
	s.Empty(s.notifier.all())
}

func (s *TransactionStoreTestSuite) TestFetch_RemoteFailureEmptiesList() {
	s.seed(storedTxn("a", domain.Expense, "10", domain.StatusPaid))
	s.repo.On("ListTransactions", mock.Anything, "user-1").Return(nil, errors.New("connection reset")).Once()

	got, err := s.store.Fetch(s.ctx)

	s.Nil(got)
	s.ErrorIs(err, apperrors.ErrRemote)
	s.Empty(s.store.Transactions())
	s.Equal(domain.NotificationError, s.notifier.last().Level)
	s.False(s.store.IsLoading())
}

func (s *TransactionStoreTestSuite) TestFetch_NotReady() {
	s.readiness.setErr(apperrors.ErrNotReady)

	_, err := s.store.Fetch(s.ctx)

	s.ErrorIs(err, apperrors.ErrNotReady)
	s.Empty(s.store.Transactions())
	s.repo.AssertNotCalled(s.T(), "ListTransactions", mock.Anything, mock.Anything)
}

func (s *TransactionStoreTestSuite) TestAdd_NoUser() {
	store := s.newStore("")

	got, err := store.Add(s.ctx, expenseInput("10"))

	s.Nil(got)
	s.ErrorIs(err, apperrors.ErrUnauthenticated)
	s.Empty(store.Transactions())
	s.Equal(domain.NotificationError, s.notifier.last().Level)
	s.repo.AssertNotCalled(s.T(), "InsertTransaction", mock.Anything, mock.Anything)
}

func (s *TransactionStoreTestSuite) TestAdd_RejectsInvalidAmount() {
	for _, amount := range []string{"0", "-5", "0.004", "10.129"} {
		_, err := s.store.Add(s.ctx, expenseInput(amount))
		s.ErrorIs(err, apperrors.ErrValidation)
	}
	s.Empty(s.store.Transactions())
	s.repo.AssertNotCalled(s.T(), "InsertTransaction", mock.Anything, mock.Anything)
}

func (s *TransactionStoreTestSuite) TestAdd_SuccessRefetches() {
	s.seed(storedTxn("old", domain.Expense, "10", domain.StatusPaid))

	input := expenseInput("42.50")
	input.Attachment = &domain.Attachment{}
	s.repo.On("InsertTransaction", mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.ID == "txn-new" && t.UserID == "user-1" && t.Attachment == nil &&
			t.Amount.Equal(decimal.RequireFromString("42.50")) && t.CreatedAt.Equal(fixedNow)
	})).Return(nil).Once()
	fromServer := storedTxn("txn-new", domain.Expense, "42.50", domain.StatusPending)
	s.repo.On("ListTransactions", mock.Anything, "user-1").
		Return([]domain.Transaction{fromServer, storedTxn("old", domain.Expense, "10", domain.StatusPaid)}, nil).Once()

	got, err := s.store.Add(s.ctx, input)

	s.Require().NoError(err)
	s.Equal("txn-new", got.ID)
	s.Nil(got.Attachment)
	s.Equal([]string{"txn-new", "old"}, ids(s.store.Transactions()))
	s.Equal(domain.NotificationInfo, s.notifier.last().Level)
	s.repo.AssertExpectations(s.T())
}

func (s *TransactionStoreTestSuite) TestAdd_PrependsRegardlessOfDate() {
	s.seed(storedTxn("old", domain.Expense, "10", domain.StatusPaid))
	input := expenseInput("5")
	input.Date = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

	var seenDuringInsert []string
	s.repo.On("InsertTransaction", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		seenDuringInsert = ids(s.store.Transactions())
	}).Return(errors.New("timeout")).Once()

	_, err := s.store.Add(s.ctx, input)

	s.ErrorIs(err, apperrors.ErrRemote)
	s.Equal([]string{"txn-new", "old"}, seenDuringInsert)
	// a failed insert leaves the local entry until the next fetch
	s.Equal([]string{"txn-new", "old"}, ids(s.store.Transactions()))
	s.Equal(domain.NotificationError, s.notifier.last().Level)
	s.repo.AssertNumberOfCalls(s.T(), "ListTransactions", 1)
}

func (s *TransactionStoreTestSuite) TestAdd_NotReadyLeavesListUntouched() {
	s.seed(storedTxn("old", domain.Expense, "10", domain.StatusPaid))
	s.readiness.setErr(apperrors.ErrNotReady)

	_, err := s.store.Add(s.ctx, expenseInput("5"))

	s.ErrorIs(err, apperrors.ErrNotReady)
	s.Equal([]string{"old"}, ids(s.store.Transactions()))
	s.repo.AssertNotCalled(s.T(), "InsertTransaction", mock.Anything, mock.Anything)
}

func (s *TransactionStoreTestSuite) TestUpdate_SuccessRefetches() {
	s.seed(storedTxn("a", domain.Expense, "10", domain.StatusDue))
	paid := domain.StatusPaid
	patch := domain.TransactionPatch{Status: &paid}
	s.repo.On("UpdateTransaction", mock.Anything, "user-1", "a", patch).Return(nil).Once()
	s.repo.On("ListTransactions", mock.Anything, "user-1").
		Return([]domain.Transaction{storedTxn("a", domain.Expense, "10", domain.StatusPaid)}, nil).Once()

	got, err := s.store.Update(s.ctx, "a", patch)

	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, got.Status)
	s.Equal(domain.NotificationInfo, s.notifier.last().Level)
	s.repo.AssertExpectations(s.T())
}

func (s *TransactionStoreTestSuite) TestUpdate_FailureKeepsLocalChange() {
	s.seed(storedTxn("a", domain.Expense, "10", domain.StatusDue))
	paid := domain.StatusPaid
	s.repo.On("UpdateTransaction", mock.Anything, "user-1", "a", mock.Anything).Return(errors.New("500")).Once()

	got, err := s.store.Update(s.ctx, "a", domain.TransactionPatch{Status: &paid})

	s.ErrorIs(err, apperrors.ErrPartialUpdate)
	s.Require().NotNil(got)
	s.Equal(domain.StatusPaid, got.Status)
	local, _ := s.store.Get("a")
	s.Equal(domain.StatusPaid, local.Status, "no rollback")
	s.Equal(domain.NotificationError, s.notifier.last().Level)
	s.Contains(s.notifier.last().Message, "locally")
	s.repo.AssertNumberOfCalls(s.T(), "ListTransactions", 1)
}

func (s *TransactionStoreTestSuite) TestUpdate_FailureReconcilesWhenEnabled() {
	s.store = s.newStore("user-1", services.WithReconcileFailedUpdates(true))
	s.seed(storedTxn("a", domain.Expense, "10", domain.StatusDue))
	paid := domain.StatusPaid
	s.repo.On("UpdateTransaction", mock.Anything, "user-1", "a", mock.Anything).Return(errors.New("500")).Once()
	s.repo.On("ListTransactions", mock.Anything, "user-1").
		Return([]domain.Transaction{storedTxn("a", domain.Expense, "10", domain.StatusDue)}, nil).Once()

	_, err := s.store.Update(s.ctx, "a", domain.TransactionPatch{Status: &paid})

	s.ErrorIs(err, apperrors.ErrPartialUpdate)
	local, _ := s.store.Get("a")
	s.Equal(domain.StatusDue, local.Status)
	s.repo.AssertExpectations(s.T())
}

func (s *TransactionStoreTestSuite) TestUpdate_UnknownID() {
	s.seed()
	desc := "x"

	_, err := s.store.Update(s.ctx, "missing", domain.TransactionPatch{Description: &desc})

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.repo.AssertNotCalled(s.T(), "UpdateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionStoreTestSuite) TestUpdate_InvalidPatch() {
	s.seed(storedTxn("a", domain.Expense, "10", domain.StatusDue))
	zero := decimal.Zero

	_, err := s.store.Update(s.ctx, "a", domain.TransactionPatch{Amount: &zero})

	s.ErrorIs(err, apperrors.ErrValidation)
	local, _ := s.store.Get("a")
	s.True(decimal.NewFromInt(10).Equal(local.Amount))
}

func (s *TransactionStoreTestSuite) TestDelete_Success() {
	s.seed(
		storedTxn("a", domain.Expense, "10", domain.StatusDue),
		storedTxn("b", domain.Expense, "20", domain.StatusDue),
	)
	s.repo.On("DeleteTransaction", mock.Anything, "user-1", "a").Return(nil).Once()

	s.Require().NoError(s.store.Delete(s.ctx, "a"))

	s.Equal([]string{"b"}, ids(s.store.Transactions()))
	s.Equal(domain.NotificationInfo, s.notifier.last().Level)
	s.repo.AssertNumberOfCalls(s.T(), "ListTransactions", 1)
}

func (s *TransactionStoreTestSuite) TestDelete_FailureRestoresViaRefetch() {
	rows := []domain.Transaction{
		storedTxn("a", domain.Expense, "10", domain.StatusDue),
		storedTxn("b", domain.Expense, "20", domain.StatusDue),
	}
	s.seed(rows...)

	var seenDuringDelete []string
	s.repo.On("DeleteTransaction", mock.Anything, "user-1", "a").Run(func(mock.Arguments) {
		seenDuringDelete = ids(s.store.Transactions())
	}).Return(errors.New("permission denied")).Once()
	s.repo.On("ListTransactions", mock.Anything, "user-1").Return(rows, nil).Once()

	err := s.store.Delete(s.ctx, "a")

	s.ErrorIs(err, apperrors.ErrRemote)
	s.Equal([]string{"b"}, seenDuringDelete, "removed optimistically")
	s.Equal([]string{"a", "b"}, ids(s.store.Transactions()), "restored by the re-fetch")
	s.Equal(domain.NotificationError, s.notifier.last().Level)
	s.repo.AssertExpectations(s.T())
}

func (s *TransactionStoreTestSuite) TestClearAll_Success() {
	s.seed(storedTxn("a", domain.Expense, "10", domain.StatusDue))
	s.repo.On("DeleteAllTransactions", mock.Anything, "user-1").Return(nil).Once()

	s.Require().NoError(s.store.ClearAll(s.ctx))

	s.Empty(s.store.Transactions())
	s.Equal(domain.NotificationInfo, s.notifier.last().Level)
}

func (s *TransactionStoreTestSuite) TestClearAll_FailureRefetches() {
	rows := []domain.Transaction{storedTxn("a", domain.Expense, "10", domain.StatusDue)}
	s.seed(rows...)
	s.repo.On("DeleteAllTransactions", mock.Anything, "user-1").Return(errors.New("boom")).Once()
	s.repo.On("ListTransactions", mock.Anything, "user-1").Return(rows, nil).Once()

	err := s.store.ClearAll(s.ctx)

	s.ErrorIs(err, apperrors.ErrRemote)
	s.Equal([]string{"a"}, ids(s.store.Transactions()))
	s.repo.AssertExpectations(s.T())
}

func (s *TransactionStoreTestSuite) TestTransactions_ReturnsCopies() {
	s.seed(storedTxn("a", domain.Expense, "10", domain.StatusDue))

	list := s.store.Transactions()
	list[0].Description = "mutated"

	got, err := s.store.Get("a")
	s.Require().NoError(err)
	s.Equal("stored a", got.Description)

	_, err = s.store.Get("missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}
