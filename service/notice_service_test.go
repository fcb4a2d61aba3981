package service

import (
	"bankdash-api/model"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNoticeService_List(t *testing.T) {
	ctx := context.Background()

	encode := func(message string) string {
		data, err := json.Marshal(model.Notice{Message: message, CreatedAt: time.Now()})
		assert.NoError(t, err)
		return string(data)
	}

	t.Run("returns decoded notices newest first", func(t *testing.T) {
		mockCache := new(MockCacheClient)
		mockCache.On("LRange", ctx, "admin:notices", int64(0), int64(9)).
			Return(redis.NewStringSliceResult([]string{
				encode("Transaction ref-12 approved"),
				encode("New transfer of $40.00 to Jordan Miles is awaiting approval"),
			}, nil)).Once()

		noticeService := NewNoticeService(mockCache)

		notices, err := noticeService.List(ctx, 10)

		assert.NoError(t, err)
		assert.Len(t, notices, 2)
		assert.Equal(t, "Transaction ref-12 approved", notices[0].Message)
	})

	t.Run("malformed entries are skipped", func(t *testing.T) {
		mockCache := new(MockCacheClient)
		mockCache.On("LRange", ctx, "admin:notices", int64(0), int64(99)).
			Return(redis.NewStringSliceResult([]string{"not-json", encode("valid")}, nil)).Once()

		noticeService := NewNoticeService(mockCache)

		notices, err := noticeService.List(ctx, 0)

		assert.NoError(t, err)
		assert.Len(t, notices, 1)
	})
}
