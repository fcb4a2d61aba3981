package service

import (
	"bankdash-api/logger"
	"bankdash-api/model"
	"context"
	"encoding/json"
	"time"
)

// INoticeRecorder is the in-app half of the notification sink. Record is
// fire-and-forget: it never blocks or fails the calling workflow.
type INoticeRecorder interface {
	Record(message string)
}

const (
	noticeListKey = "admin:notices"
	noticeListCap = 100
)

// NoticeService keeps the admin console notification feed in a capped Redis
// list, newest first.
type NoticeService struct {
	cache ICacheClient
}

func NewNoticeService(cache ICacheClient) *NoticeService {
	return &NoticeService{cache: cache}
}

// Record appends a notice asynchronously. Failures are logged and dropped.
func (s *NoticeService) Record(message string) {
	notice := model.Notice{Message: message, CreatedAt: time.Now()}
	data, err := json.Marshal(notice)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to encode admin notice")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.cache.LPush(ctx, noticeListKey, data).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to record admin notice")
			return
		}
		s.cache.LTrim(ctx, noticeListKey, 0, noticeListCap-1)
	}()
}

// List returns up to limit of the most recent notices.
func (s *NoticeService) List(ctx context.Context, limit int) ([]*model.Notice, error) {
	if limit <= 0 || limit > noticeListCap {
		limit = noticeListCap
	}

	entries, err := s.cache.LRange(ctx, noticeListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	notices := make([]*model.Notice, 0, len(entries))
	for _, entry := range entries {
		var n model.Notice
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			logger.Log.WithError(err).Warn("Skipping malformed admin notice")
			continue
		}
		notices = append(notices, &n)
	}
	return notices, nil
}
