package service

import (
	"bankdash-api/model"
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAccountService_GetAccountForUser(t *testing.T) {
	ctx := context.Background()
	account := &model.Account{ID: 7, UserID: 1, AccountNumber: 1000000007, Balance: 100.00}

	t.Run("cache miss falls through to the repository and seeds the cache", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockCache := new(MockCacheClient)

		mockCache.On("Get", ctx, accountCacheKey(1)).
			Return(redis.NewStringResult("", redis.Nil)).Once()
		mockRepo.On("GetAccountByUserID", 1).Return(account, nil).Once()
		mockCache.On("Set", ctx, accountCacheKey(1), mock.Anything, accountCacheTTL).
			Return(redis.NewStatusResult("OK", nil)).Once()

		accountService := NewAccountService(mockRepo, mockCache)

		got, err := accountService.GetAccountForUser(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, account, got)
		mockCache.AssertExpectations(t)
	})

	t.Run("cache hit skips the repository", func(t *testing.T) {
		data, err := json.Marshal(account)
		assert.NoError(t, err)

		mockRepo := new(MockAccountRepository)
		mockCache := new(MockCacheClient)

		mockCache.On("Get", ctx, accountCacheKey(1)).
			Return(redis.NewStringResult(string(data), nil)).Once()

		accountService := NewAccountService(mockRepo, mockCache)

		got, err := accountService.GetAccountForUser(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, account.Balance, got.Balance)
		mockRepo.AssertNotCalled(t, "GetAccountByUserID")
	})

	t.Run("missing account", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		mockCache := new(MockCacheClient)

		mockCache.On("Get", ctx, accountCacheKey(9)).
			Return(redis.NewStringResult("", redis.Nil)).Once()
		mockRepo.On("GetAccountByUserID", 9).Return(nil, sql.ErrNoRows).Once()

		accountService := NewAccountService(mockRepo, mockCache)

		_, err := accountService.GetAccountForUser(ctx, 9)

		assert.Equal(t, ErrAccountNotFound, err)
	})
}

func TestAccountService_InvalidateForUser(t *testing.T) {
	mockCache := new(MockCacheClient)
	mockCache.On("Del", context.Background(), []string{accountCacheKey(1)}).
		Return(redis.NewIntResult(1, nil)).Once()

	accountService := NewAccountService(nil, mockCache)
	accountService.InvalidateForUser(context.Background(), 1)

	mockCache.AssertExpectations(t)
}
