package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/finbooks-io/ledger_engine/internal/apperrors"
	"github.com/finbooks-io/ledger_engine/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_engine/internal/core/ports/services"
	"github.com/finbooks-io/ledger_engine/internal/core/services"
	"github.com/finbooks-io/ledger_engine/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, journal, entries, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournalsByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, reversing, entries, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.LedgerEntry, error) {
	args := m.Called(ctx, journalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.LedgerEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, tenantID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock IdempotencyRepository ---
type MockIdempotencyRepository struct {
	mock.Mock
}

var _ portsrepo.IdempotencyRepositoryFacade = (*MockIdempotencyRepository)(nil)

func (m *MockIdempotencyRepository) FindRecordByKey(ctx context.Context, tenantID, idempotencyKey string) (*domain.IdempotencyRecord, error) {
	args := m.Called(ctx, tenantID, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdempotencyRecord), args.Error(1)
}

func (m *MockIdempotencyRepository) ReserveInTx(ctx context.Context, tx pgx.Tx, record domain.IdempotencyRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CloseAccount(ctx context.Context, tenantID string, accountID string, userID string) error {
	args := m.Called(ctx, tenantID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) SetAllowNegative(ctx context.Context, tenantID string, accountID string, allow bool, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, allow, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Test Suite ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo     *MockJournalRepository
	mockIdempotencyRepo *MockIdempotencyRepository
	mockAccountSvc      *MockAccountService
	service             portssvc.PostingSvcFacade

	tenantID         string
	userID           string
	cashAccount      domain.Account
	revenueAccount   domain.Account
	liabilityAccount domain.Account
}

func (s *PostingServiceTestSuite) SetupTest() {
	s.mockJournalRepo = new(MockJournalRepository)
	s.mockIdempotencyRepo = new(MockIdempotencyRepository)
	s.mockAccountSvc = new(MockAccountService)
	s.service = services.NewPostingService(s.mockJournalRepo, s.mockIdempotencyRepo, s.mockAccountSvc, false)

	s.tenantID = uuid.NewString()
	s.userID = uuid.NewString()

	s.cashAccount = domain.Account{
		AccountID:    uuid.NewString(),
		TenantID:     s.tenantID,
		AccountCode:  "1000",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		Status:       domain.AccountOpen,
	}
	s.revenueAccount = domain.Account{
		AccountID:    uuid.NewString(),
		TenantID:     s.tenantID,
		AccountCode:  "4000",
		AccountType:  domain.Revenue,
		CurrencyCode: "USD",
		Status:       domain.AccountOpen,
	}
	s.liabilityAccount = domain.Account{
		AccountID:    uuid.NewString(),
		TenantID:     s.tenantID,
		AccountCode:  "2000",
		AccountType:  domain.Liability,
		CurrencyCode: "EUR",
		Status:       domain.AccountOpen,
	}
}

func (s *PostingServiceTestSuite) balancedRequest() dto.PostTransactionRequest {
	return dto.PostTransactionRequest{
		Description:   "Invoice 42 payment",
		EffectiveDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Entries: []dto.EntryInput{
			{AccountID: s.cashAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: "DEBIT"},
			{AccountID: s.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: "CREDIT"},
		},
	}
}

func (s *PostingServiceTestSuite) expectAccounts(accounts ...domain.Account) {
	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}
	s.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, s.tenantID, mock.AnythingOfType("[]string")).Return(accountsMap, nil).Once()
}

func (s *PostingServiceTestSuite) TestPostTransactionSuccess() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.expectAccounts(s.cashAccount, s.revenueAccount)
	s.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	journal, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(journal)
	s.NotEmpty(journal.JournalID)
	s.Equal(s.tenantID, journal.TenantID)
	s.Equal(domain.Posted, journal.Status)
	s.Equal("USD", journal.CurrencyCode)
	s.Equal(s.userID, journal.CreatedBy)
	s.Len(journal.Entries, 2)
	s.Equal(journal.JournalID, journal.Entries[0].JournalID)
	s.Equal(req.EffectiveDate, journal.Entries[0].EffectiveDate)

	s.mockAccountSvc.AssertExpectations(s.T())
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestPostTransactionBalanceChangesAreSigned() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.expectAccounts(s.cashAccount, s.revenueAccount)

	var captured map[string]decimal.Decimal
	s.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything, mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		captured = changes
		return true
	})).Return(nil).Once()

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	// Debiting an asset and crediting revenue both increase the signed
	// balances under the normal-balance convention.
	s.True(captured[s.cashAccount.AccountID].Equal(decimal.NewFromInt(100)))
	s.True(captured[s.revenueAccount.AccountID].Equal(decimal.NewFromInt(100)))
}

func (s *PostingServiceTestSuite) TestPostTransactionUnbalanced() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Entries[1].Amount = decimal.NewFromInt(90)

	s.expectAccounts(s.cashAccount, s.revenueAccount)

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrJournalUnbalanced)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostTransactionUnknownAccountReportedBeforeBalance() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Entries[1].Amount = decimal.NewFromInt(90)

	// A request that is both unbalanced and references an unknown account
	// reports the account failure: resolution runs ahead of the sum check.
	s.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, s.tenantID, mock.AnythingOfType("[]string")).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.NotErrorIs(err, services.ErrJournalUnbalanced)
	s.mockAccountSvc.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestPostTransactionSingleEntry() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Entries = req.Entries[:1]

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrJournalMinEntries)
}

func (s *PostingServiceTestSuite) TestPostTransactionSingleAccount() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Entries[1].AccountID = s.cashAccount.AccountID

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrJournalMinAccounts)
}

func (s *PostingServiceTestSuite) TestPostTransactionNonPositiveAmount() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Entries[0].Amount = decimal.Zero

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PostingServiceTestSuite) TestPostTransactionCurrencyMismatch() {
	ctx := context.Background()
	req := s.balancedRequest()
	req.Entries[1].AccountID = s.liabilityAccount.AccountID

	s.expectAccounts(s.cashAccount, s.liabilityAccount)

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, services.ErrCurrencyMismatch)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostTransactionClosedAccount() {
	ctx := context.Background()
	req := s.balancedRequest()

	closed := s.revenueAccount
	closed.Status = domain.AccountClosed
	s.expectAccounts(s.cashAccount, closed)

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPrecondition)
}

func (s *PostingServiceTestSuite) TestPostTransactionForeignAccount() {
	ctx := context.Background()
	req := s.balancedRequest()

	s.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, s.tenantID, mock.AnythingOfType("[]string")).Return(nil, apperrors.ErrForbidden).Once()

	_, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *PostingServiceTestSuite) TestPostTransactionFutureDateRejected() {
	ctx := context.Background()
	strictService := services.NewPostingService(s.mockJournalRepo, s.mockIdempotencyRepo, s.mockAccountSvc, true)

	req := s.balancedRequest()
	req.EffectiveDate = time.Now().UTC().Add(48 * time.Hour)

	_, err := strictService.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PostingServiceTestSuite) TestPostTransactionIdempotentReplay() {
	ctx := context.Background()
	key := "payment-42"
	req := s.balancedRequest()
	req.IdempotencyKey = &key

	existingJournalID := uuid.NewString()
	record := &domain.IdempotencyRecord{TenantID: s.tenantID, IdempotencyKey: key, JournalID: existingJournalID}
	existing := &domain.Journal{JournalID: existingJournalID, TenantID: s.tenantID, Status: domain.Posted}

	s.mockIdempotencyRepo.On("FindRecordByKey", ctx, s.tenantID, key).Return(record, nil).Once()
	s.mockJournalRepo.On("FindJournalByID", ctx, existingJournalID).Return(existing, nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, existingJournalID).Return([]domain.LedgerEntry{}, nil).Once()

	journal, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Equal(existingJournalID, journal.JournalID)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockAccountSvc.AssertNotCalled(s.T(), "GetAccountsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestPostTransactionIdempotencyRace() {
	ctx := context.Background()
	key := "payment-42"
	req := s.balancedRequest()
	req.IdempotencyKey = &key

	winnerJournalID := uuid.NewString()
	record := &domain.IdempotencyRecord{TenantID: s.tenantID, IdempotencyKey: key, JournalID: winnerJournalID}
	winner := &domain.Journal{JournalID: winnerJournalID, TenantID: s.tenantID, Status: domain.Posted}

	// Key is free at the pre-check, but another request commits it first.
	s.mockIdempotencyRepo.On("FindRecordByKey", ctx, s.tenantID, key).Return(nil, apperrors.ErrNotFound).Once()
	s.expectAccounts(s.cashAccount, s.revenueAccount)
	s.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	s.mockIdempotencyRepo.On("FindRecordByKey", ctx, s.tenantID, key).Return(record, nil).Once()
	s.mockJournalRepo.On("FindJournalByID", ctx, winnerJournalID).Return(winner, nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, winnerJournalID).Return([]domain.LedgerEntry{}, nil).Once()

	journal, err := s.service.PostTransaction(ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Equal(winnerJournalID, journal.JournalID)
	s.mockIdempotencyRepo.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestGetJournalByIDForeignTenant() {
	ctx := context.Background()
	journalID := uuid.NewString()
	foreign := &domain.Journal{JournalID: journalID, TenantID: uuid.NewString(), Status: domain.Posted}

	s.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(foreign, nil).Once()

	_, err := s.service.GetJournalByID(ctx, s.tenantID, journalID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostingServiceTestSuite) TestReverseJournalSuccess() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:     originalID,
		TenantID:      s.tenantID,
		EffectiveDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "USD",
		Status:        domain.Posted,
	}
	originalEntries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), JournalID: originalID, TenantID: s.tenantID, AccountID: s.cashAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: domain.Debit, CurrencyCode: "USD"},
		{EntryID: uuid.NewString(), JournalID: originalID, TenantID: s.tenantID, AccountID: s.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: domain.Credit, CurrencyCode: "USD"},
	}

	s.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, originalID).Return(originalEntries, nil).Once()
	s.expectAccounts(s.cashAccount, s.revenueAccount)

	var savedJournal domain.Journal
	var savedEntries []domain.LedgerEntry
	s.mockJournalRepo.On("SaveReversal", ctx, mock.MatchedBy(func(j domain.Journal) bool {
		savedJournal = j
		return true
	}), mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		savedEntries = entries
		return true
	}), mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	reversing, err := s.service.ReverseJournal(ctx, s.tenantID, originalID, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(reversing)
	s.Require().NotNil(reversing.OriginalJournalID)
	s.Equal(originalID, *reversing.OriginalJournalID)
	s.Equal(domain.Posted, reversing.Status)

	// The saved journal carries the link SaveReversal flips the original by.
	s.Require().NotNil(savedJournal.OriginalJournalID)
	s.Equal(originalID, *savedJournal.OriginalJournalID)

	s.Require().Len(savedEntries, 2)
	s.Equal(domain.Credit, savedEntries[0].Direction)
	s.Equal(domain.Debit, savedEntries[1].Direction)
	s.True(savedEntries[0].Amount.Equal(decimal.NewFromInt(100)))

	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestReverseJournalConcurrentFlipRejected() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:     originalID,
		TenantID:      s.tenantID,
		EffectiveDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode:  "USD",
		Status:        domain.Posted,
	}
	originalEntries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), JournalID: originalID, TenantID: s.tenantID, AccountID: s.cashAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: domain.Debit, CurrencyCode: "USD"},
		{EntryID: uuid.NewString(), JournalID: originalID, TenantID: s.tenantID, AccountID: s.revenueAccount.AccountID, Amount: decimal.NewFromInt(100), Direction: domain.Credit, CurrencyCode: "USD"},
	}

	// The journal still reads POSTED, but a concurrent reversal wins the
	// conditional flip inside the repository. The loser gets a precondition
	// failure and no second reversing journal exists.
	s.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()
	s.mockJournalRepo.On("FindEntriesByJournalID", ctx, originalID).Return(originalEntries, nil).Once()
	s.expectAccounts(s.cashAccount, s.revenueAccount)
	s.mockJournalRepo.On("SaveReversal", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: journal %s is no longer POSTED", apperrors.ErrPrecondition, originalID)).Once()

	_, err := s.service.ReverseJournal(ctx, s.tenantID, originalID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPrecondition)
	s.mockJournalRepo.AssertExpectations(s.T())
}

func (s *PostingServiceTestSuite) TestReverseJournalAlreadyReversed() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Journal{JournalID: originalID, TenantID: s.tenantID, Status: domain.Reversed}

	s.mockJournalRepo.On("FindJournalByID", ctx, originalID).Return(original, nil).Once()

	_, err := s.service.ReverseJournal(ctx, s.tenantID, originalID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPrecondition)
	s.mockJournalRepo.AssertNotCalled(s.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostingServiceTestSuite) TestReverseJournalOfReversal() {
	ctx := context.Background()
	someOriginalID := uuid.NewString()
	reversalID := uuid.NewString()
	reversal := &domain.Journal{JournalID: reversalID, TenantID: s.tenantID, Status: domain.Posted, OriginalJournalID: &someOriginalID}

	s.mockJournalRepo.On("FindJournalByID", ctx, reversalID).Return(reversal, nil).Once()

	_, err := s.service.ReverseJournal(ctx, s.tenantID, reversalID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPrecondition)
}

func (s *PostingServiceTestSuite) TestReverseJournalForeignTenant() {
	ctx := context.Background()
	journalID := uuid.NewString()
	foreign := &domain.Journal{JournalID: journalID, TenantID: uuid.NewString(), Status: domain.Posted}

	s.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(foreign, nil).Once()

	_, err := s.service.ReverseJournal(ctx, s.tenantID, journalID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
