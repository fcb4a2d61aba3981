package service

import (
	"bankdash-api/model"
	"bankdash-api/repository"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")

const accountCacheTTL = 10 * time.Minute

func accountCacheKey(userID int) string {
	return fmt.Sprintf("account:user:%d", userID)
}

// AccountService serves account reads through a cache-aside strategy. Any
// balance mutation (transfer completion, rejection refund) invalidates the
// owner's cache entry, so cached reads never lag a committed write.
type AccountService struct {
	repo  repository.IAccountRepository
	cache ICacheClient
}

func NewAccountService(repo repository.IAccountRepository, cache ICacheClient) *AccountService {
	return &AccountService{repo: repo, cache: cache}
}

// GetAccountForUser returns the user's account, preferring the cache.
func (s *AccountService) GetAccountForUser(ctx context.Context, userID int) (*model.Account, error) {
	cacheKey := accountCacheKey(userID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var account model.Account
		if err := json.Unmarshal([]byte(cached), &account); err == nil {
			return &account, nil
		}
	}

	account, err := s.repo.GetAccountByUserID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(account); err == nil {
		s.cache.Set(ctx, cacheKey, data, accountCacheTTL)
	}

	return account, nil
}

// GetAllAccounts retrieves all accounts. No caching, admin data needs to be
// fresh.
func (s *AccountService) GetAllAccounts() ([]*model.Account, error) {
	return s.repo.GetAllAccounts()
}

// InvalidateForUser drops the cached account after a balance mutation.
func (s *AccountService) InvalidateForUser(ctx context.Context, userID int) {
	s.cache.Del(ctx, accountCacheKey(userID))
}
