package cron

import (
	"context"
	"log"
	"time"
)

// Daily 每天 UTC 零点执行一次 task，直到 ctx 取消。
// 启动时先跑一次，补上停机期间漏掉的执行
func Daily(ctx context.Context, name string, task func(ctx context.Context, now time.Time) error) {
	run := func() {
		now := time.Now().UTC()
		if err := task(ctx, now); err != nil {
			log.Printf("Cron %s failed: %v", name, err)
		}
	}

	run()

	for {
		now := time.Now().UTC()
		next := now.Truncate(24 * time.Hour).Add(24 * time.Hour)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			run()
		}
	}
}
