package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"glacier_alert/internal/adapters/observability"
	"glacier_alert/internal/domain"
)

const reportKey = "glacier:last_report"

// Reports stores the last cycle report as JSON so any process can serve it.
type Reports struct {
	c   *redis.Client
	ttl time.Duration
}

func NewReports(c *redis.Client, ttl time.Duration) *Reports { return &Reports{c: c, ttl: ttl} }

func (r *Reports) SaveReport(ctx context.Context, rep domain.Report) error {
	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, reportKey, b, r.ttl).Err()
}

func (r *Reports) LastReport(ctx context.Context) (domain.Report, bool, error) {
	v, err := r.c.Get(ctx, reportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return domain.Report{}, false, nil
	}
	if err != nil {
		return domain.Report{}, false, err
	}
	observability.ObserveCache("redis", "hit")
	var rep domain.Report
	if err := json.Unmarshal(v, &rep); err != nil {
		return domain.Report{}, false, err
	}
	return rep, true, nil
}
