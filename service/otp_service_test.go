package service

import (
	"bankdash-api/model"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOTPRepository is a mock for IOTPRepository.
type MockOTPRepository struct{ mock.Mock }

func (m *MockOTPRepository) CreateCode(code *model.OneTimeCode) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockOTPRepository) GetCodeForUpdate(tx *sql.Tx, id string) (*model.OneTimeCode, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OneTimeCode), args.Error(1)
}

func (m *MockOTPRepository) IncrementAttempts(tx *sql.Tx, id string) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *MockOTPRepository) MarkConsumed(tx *sql.Tx, id string) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *MockOTPRepository) DeleteCode(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestOTPService_Issue(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mockRepo := new(MockOTPRepository)
	otpService := NewOTPService(db, mockRepo)

	var created *model.OneTimeCode
	mockRepo.On("CreateCode", mock.AnythingOfType("*model.OneTimeCode")).Run(func(args mock.Arguments) {
		created = args.Get(0).(*model.OneTimeCode)
	}).Return(nil).Once()

	codeID, plaintext, err := otpService.Issue(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, plaintext, 6)
	assert.Regexp(t, `^\d{6}$`, plaintext)
	assert.Equal(t, created.ID, codeID)
	// Only the hash is persisted, never the plaintext.
	assert.NotEqual(t, plaintext, created.CodeHash)
	assert.Equal(t, hashCode(plaintext), created.CodeHash)
	assert.False(t, created.Consumed)
	assert.Zero(t, created.Attempts)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), created.ExpiresAt, 2*time.Second)
	mockRepo.AssertExpectations(t)
}

func TestOTPService_Verify(t *testing.T) {
	ctx := context.Background()
	codeID := "f4b4b3e2-9c1d-4e58-9a44-111111111111"

	freshCode := func() *model.OneTimeCode {
		return &model.OneTimeCode{
			ID:        codeID,
			UserID:    1,
			CodeHash:  hashCode("482913"),
			ExpiresAt: time.Now().Add(5 * time.Minute),
		}
	}

	t.Run("success consumes the code", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockRepo := new(MockOTPRepository)
		otpService := NewOTPService(db, mockRepo)

		dbMock.ExpectBegin()
		mockRepo.On("GetCodeForUpdate", mock.Anything, codeID).Return(freshCode(), nil).Once()
		mockRepo.On("MarkConsumed", mock.Anything, codeID).Return(nil).Once()
		dbMock.ExpectCommit()

		err = otpService.Verify(ctx, codeID, "482913")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockRepo := new(MockOTPRepository)
		otpService := NewOTPService(db, mockRepo)

		dbMock.ExpectBegin()
		mockRepo.On("GetCodeForUpdate", mock.Anything, codeID).Return(nil, sql.ErrNoRows).Once()
		dbMock.ExpectRollback()

		err = otpService.Verify(ctx, codeID, "482913")

		assert.Equal(t, ErrCodeNotFound, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("consumed code fails with already used", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockRepo := new(MockOTPRepository)
		otpService := NewOTPService(db, mockRepo)

		used := freshCode()
		used.Consumed = true

		dbMock.ExpectBegin()
		mockRepo.On("GetCodeForUpdate", mock.Anything, codeID).Return(used, nil).Once()
		dbMock.ExpectRollback()

		// Even the correct plaintext cannot be verified twice.
		err = otpService.Verify(ctx, codeID, "482913")

		assert.Equal(t, ErrCodeAlreadyUsed, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("expired code", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockRepo := new(MockOTPRepository)
		otpService := NewOTPService(db, mockRepo)

		expired := freshCode()
		expired.ExpiresAt = time.Now().Add(-1 * time.Minute)

		dbMock.ExpectBegin()
		mockRepo.On("GetCodeForUpdate", mock.Anything, codeID).Return(expired, nil).Once()
		dbMock.ExpectRollback()

		err = otpService.Verify(ctx, codeID, "482913")

		assert.Equal(t, ErrCodeExpired, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("mismatch increments attempts and commits", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockRepo := new(MockOTPRepository)
		otpService := NewOTPService(db, mockRepo)

		dbMock.ExpectBegin()
		mockRepo.On("GetCodeForUpdate", mock.Anything, codeID).Return(freshCode(), nil).Once()
		mockRepo.On("IncrementAttempts", mock.Anything, codeID).Return(nil).Once()
		dbMock.ExpectCommit()

		err = otpService.Verify(ctx, codeID, "000000")

		assert.Equal(t, ErrInvalidCode, err)
		mockRepo.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("attempt limit reached rejects even the correct code", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mockRepo := new(MockOTPRepository)
		otpService := NewOTPService(db, mockRepo)

		lockedOut := freshCode()
		lockedOut.Attempts = 3

		dbMock.ExpectBegin()
		mockRepo.On("GetCodeForUpdate", mock.Anything, codeID).Return(lockedOut, nil).Once()
		dbMock.ExpectRollback()

		err = otpService.Verify(ctx, codeID, "482913")

		assert.Equal(t, ErrTooManyAttempts, err)
		mockRepo.AssertNotCalled(t, "IncrementAttempts")
		mockRepo.AssertNotCalled(t, "MarkConsumed")
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
