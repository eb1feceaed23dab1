package pgsql

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// fakeBatchResults satisfies pgx.BatchResults for the entry insert batch.
type fakeBatchResults struct {
	closeErr error
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}
func (b *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (b *fakeBatchResults) QueryRow() pgx.Row        { return nil }
func (b *fakeBatchResults) Close() error             { return b.closeErr }

// fakeTx records the statements SaveJournal and SaveReversal issue so the
// tests can assert what reached storage and whether the unit committed.
type fakeTx struct {
	execSQL    []string
	execTagFor func(sql string) pgconn.CommandTag
	batchCount int
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execSQL = append(t.execSQL, sql)
	if t.execTagFor != nil {
		return t.execTagFor(sql), nil
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	t.batchCount += b.Len()
	return &fakeBatchResults{}
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not supported")
}
func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not supported")
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

// fakePool hands out a single fakeTx; the read-side methods are never used
// by the save paths under test.
type fakePool struct {
	tx *fakeTx
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) { return p.tx, nil }
func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not supported")
}
func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}
func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

// --- Mocks for the injected repositories ---

type MockAccountLockRepo struct {
	mock.Mock
}

func (m *MockAccountLockRepo) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountLockRepo) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountLockRepo) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountLockRepo) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountLockRepo) CloseAccount(ctx context.Context, tenantID string, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountLockRepo) SetAllowNegative(ctx context.Context, tenantID string, accountID string, allow bool, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, accountID, allow, userID, now)
	return args.Error(0)
}

func (m *MockAccountLockRepo) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

type MockBalanceTotalsRepo struct {
	mock.Mock
}

func (m *MockBalanceTotalsRepo) AccountEntryTotals(ctx context.Context, tenantID, accountID string, asOf *time.Time) (domain.EntryTotals, error) {
	args := m.Called(ctx, tenantID, accountID, asOf)
	return args.Get(0).(domain.EntryTotals), args.Error(1)
}

func (m *MockBalanceTotalsRepo) AccountEntryTotalsBatch(ctx context.Context, tenantID string, accountIDs []string, asOf *time.Time) (map[string]domain.EntryTotals, error) {
	args := m.Called(ctx, tenantID, accountIDs, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.EntryTotals), args.Error(1)
}

func (m *MockBalanceTotalsRepo) AccountEntryTotalsInTx(ctx context.Context, tx pgx.Tx, tenantID string, accountIDs []string) (map[string]domain.EntryTotals, error) {
	args := m.Called(ctx, tx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.EntryTotals), args.Error(1)
}

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) FindRecordByKey(ctx context.Context, tenantID, idempotencyKey string) (*domain.IdempotencyRecord, error) {
	args := m.Called(ctx, tenantID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdempotencyRecord), args.Error(1)
}

func (m *MockReservationRepo) ReserveInTx(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

// --- Test Suite ---

type JournalRepositorySaveTestSuite struct {
	suite.Suite
	tx              *fakeTx
	mockAccountRepo *MockAccountLockRepo
	mockBalanceRepo *MockBalanceTotalsRepo
	mockIdemRepo    *MockReservationRepo
	repo            *PgxJournalRepository

	tenantID  string
	cashID    string
	revenueID string
}

func (s *JournalRepositorySaveTestSuite) SetupTest() {
	s.tx = &fakeTx{}
	s.mockAccountRepo = new(MockAccountLockRepo)
	s.mockBalanceRepo = new(MockBalanceTotalsRepo)
	s.mockIdemRepo = new(MockReservationRepo)
	s.repo = &PgxJournalRepository{
		BaseRepository:  BaseRepository{Pool: &fakePool{tx: s.tx}},
		accountRepo:     s.mockAccountRepo,
		balanceRepo:     s.mockBalanceRepo,
		idempotencyRepo: s.mockIdemRepo,
	}

	s.tenantID = uuid.NewString()
	s.cashID = uuid.NewString()
	s.revenueID = uuid.NewString()
}

func (s *JournalRepositorySaveTestSuite) lockedAccounts(cashAllowNegative bool, cashStatus domain.AccountStatus) map[string]domain.Account {
	return map[string]domain.Account{
		s.cashID: {
			AccountID:     s.cashID,
			TenantID:      s.tenantID,
			AccountType:   domain.Asset,
			CurrencyCode:  "USD",
			AllowNegative: cashAllowNegative,
			Status:        cashStatus,
		},
		s.revenueID: {
			AccountID:     s.revenueID,
			TenantID:      s.tenantID,
			AccountType:   domain.Revenue,
			CurrencyCode:  "USD",
			AllowNegative: true,
			Status:        domain.AccountOpen,
		},
	}
}

func (s *JournalRepositorySaveTestSuite) totals(cashDebits, cashCredits int64) map[string]domain.EntryTotals {
	return map[string]domain.EntryTotals{
		s.cashID: {
			DebitTotal:  decimal.NewFromInt(cashDebits),
			CreditTotal: decimal.NewFromInt(cashCredits),
		},
		s.revenueID: {},
	}
}

func (s *JournalRepositorySaveTestSuite) journalWithEntries(amount int64, cashDirection domain.EntryDirection) (domain.Journal, []domain.LedgerEntry, map[string]decimal.Decimal) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	journal := domain.Journal{
		JournalID:     uuid.NewString(),
		TenantID:      s.tenantID,
		EffectiveDate: now,
		CurrencyCode:  "USD",
		Status:        domain.Posted,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	entries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), JournalID: journal.JournalID, TenantID: s.tenantID, AccountID: s.cashID, Amount: decimal.NewFromInt(amount), Direction: cashDirection, CurrencyCode: "USD", EffectiveDate: now, PostedAt: now},
		{EntryID: uuid.NewString(), JournalID: journal.JournalID, TenantID: s.tenantID, AccountID: s.revenueID, Amount: decimal.NewFromInt(amount), Direction: cashDirection.Opposite(), CurrencyCode: "USD", EffectiveDate: now, PostedAt: now},
	}

	// Signed net effect per account under the normal-balance convention: a
	// cash CREDIT decreases the asset balance.
	cashChange := decimal.NewFromInt(amount)
	if cashDirection == domain.Credit {
		cashChange = cashChange.Neg()
	}
	balanceChanges := map[string]decimal.Decimal{
		s.cashID:    cashChange,
		s.revenueID: decimal.NewFromInt(amount),
	}
	return journal, entries, balanceChanges
}

func (s *JournalRepositorySaveTestSuite) TestSaveJournalRejectsOverdraw() {
	ctx := context.Background()
	journal, entries, changes := s.journalWithEntries(80, domain.Credit)

	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, s.tx, mock.AnythingOfType("[]string")).
		Return(s.lockedAccounts(false, domain.AccountOpen), nil).Once()
	s.mockBalanceRepo.On("AccountEntryTotalsInTx", ctx, s.tx, s.tenantID, mock.AnythingOfType("[]string")).
		Return(s.totals(50, 0), nil).Once()

	err := s.repo.SaveJournal(ctx, journal, entries, changes)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPrecondition)
	s.Empty(s.tx.execSQL, "a rejected posting must write nothing")
	s.Zero(s.tx.batchCount)
	s.False(s.tx.committed)
	s.True(s.tx.rolledBack)
}

func (s *JournalRepositorySaveTestSuite) TestSaveJournalRejectsClosedAccountUnderLock() {
	ctx := context.Background()
	journal, entries, changes := s.journalWithEntries(10, domain.Debit)

	// The account passed service validation but was closed before the lock.
	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, s.tx, mock.AnythingOfType("[]string")).
		Return(s.lockedAccounts(true, domain.AccountClosed), nil).Once()

	err := s.repo.SaveJournal(ctx, journal, entries, changes)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPrecondition)
	s.Empty(s.tx.execSQL)
	s.False(s.tx.committed)
	s.mockBalanceRepo.AssertNotCalled(s.T(), "AccountEntryTotalsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *JournalRepositorySaveTestSuite) TestSaveJournalCommitsWhenPolicyPasses() {
	ctx := context.Background()
	journal, entries, changes := s.journalWithEntries(30, domain.Credit)
	key := "payment-42"
	journal.IdempotencyKey = &key

	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, s.tx, mock.AnythingOfType("[]string")).
		Return(s.lockedAccounts(false, domain.AccountOpen), nil).Once()
	s.mockBalanceRepo.On("AccountEntryTotalsInTx", ctx, s.tx, s.tenantID, mock.AnythingOfType("[]string")).
		Return(s.totals(50, 0), nil).Once()
	s.mockIdemRepo.On("ReserveInTx", ctx, s.tx, mock.AnythingOfType("domain.IdempotencyRecord")).
		Run(func(args mock.Arguments) {
			// The journal header row must exist before the reservation, its
			// journal_id foreign key is checked immediately.
			s.Require().Len(s.tx.execSQL, 1)
			s.Contains(s.tx.execSQL[0], "INSERT INTO journals")
		}).
		Return(nil).Once()

	err := s.repo.SaveJournal(ctx, journal, entries, changes)

	s.Require().NoError(err)
	s.Equal(2, s.tx.batchCount)
	s.True(s.tx.committed)
	s.mockIdemRepo.AssertExpectations(s.T())
}

func (s *JournalRepositorySaveTestSuite) TestSaveJournalAllowNegativeSkipsPolicy() {
	ctx := context.Background()
	journal, entries, changes := s.journalWithEntries(500, domain.Credit)

	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, s.tx, mock.AnythingOfType("[]string")).
		Return(s.lockedAccounts(true, domain.AccountOpen), nil).Once()
	s.mockBalanceRepo.On("AccountEntryTotalsInTx", ctx, s.tx, s.tenantID, mock.AnythingOfType("[]string")).
		Return(s.totals(0, 0), nil).Once()

	err := s.repo.SaveJournal(ctx, journal, entries, changes)

	s.Require().NoError(err)
	s.True(s.tx.committed)
}

func (s *JournalRepositorySaveTestSuite) TestSaveReversalFlipsOriginalInSameTransaction() {
	ctx := context.Background()
	originalID := uuid.NewString()
	reversing, entries, changes := s.journalWithEntries(30, domain.Credit)
	reversing.OriginalJournalID = &originalID

	s.tx.execTagFor = func(sql string) pgconn.CommandTag {
		if strings.Contains(sql, "UPDATE journals") {
			return pgconn.NewCommandTag("UPDATE 1")
		}
		return pgconn.NewCommandTag("INSERT 0 1")
	}
	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, s.tx, mock.AnythingOfType("[]string")).
		Return(s.lockedAccounts(true, domain.AccountOpen), nil).Once()
	s.mockBalanceRepo.On("AccountEntryTotalsInTx", ctx, s.tx, s.tenantID, mock.AnythingOfType("[]string")).
		Return(s.totals(100, 0), nil).Once()

	err := s.repo.SaveReversal(ctx, reversing, entries, changes)

	s.Require().NoError(err)
	s.Require().Len(s.tx.execSQL, 2)
	s.Contains(s.tx.execSQL[0], "INSERT INTO journals")
	s.Contains(s.tx.execSQL[1], "UPDATE journals")
	s.Contains(s.tx.execSQL[1], "status = $6", "the flip must be conditional on the original's status")
	s.True(s.tx.committed)
}

func (s *JournalRepositorySaveTestSuite) TestSaveReversalRejectsWhenOriginalNoLongerPosted() {
	ctx := context.Background()
	originalID := uuid.NewString()
	reversing, entries, changes := s.journalWithEntries(30, domain.Credit)
	reversing.OriginalJournalID = &originalID

	// A concurrent reversal flipped the original first: the conditional
	// UPDATE matches no row and the reversing journal must not survive.
	s.tx.execTagFor = func(sql string) pgconn.CommandTag {
		if strings.Contains(sql, "UPDATE journals") {
			return pgconn.NewCommandTag("UPDATE 0")
		}
		return pgconn.NewCommandTag("INSERT 0 1")
	}
	s.mockAccountRepo.On("FindAccountsByIDsForUpdate", ctx, s.tx, mock.AnythingOfType("[]string")).
		Return(s.lockedAccounts(true, domain.AccountOpen), nil).Once()
	s.mockBalanceRepo.On("AccountEntryTotalsInTx", ctx, s.tx, s.tenantID, mock.AnythingOfType("[]string")).
		Return(s.totals(100, 0), nil).Once()

	err := s.repo.SaveReversal(ctx, reversing, entries, changes)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPrecondition)
	s.False(s.tx.committed)
	s.True(s.tx.rolledBack)
}

func (s *JournalRepositorySaveTestSuite) TestSaveReversalRequiresOriginalLink() {
	ctx := context.Background()
	reversing, entries, changes := s.journalWithEntries(30, domain.Credit)

	err := s.repo.SaveReversal(ctx, reversing, entries, changes)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Empty(s.tx.execSQL)
}

func TestJournalRepositorySaveTestSuite(t *testing.T) {
	suite.Run(t, new(JournalRepositorySaveTestSuite))
}
