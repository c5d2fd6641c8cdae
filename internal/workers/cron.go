package workers

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/social-feed/social-feed/pkg/logger"
)

// CronManager 管理 worker 进程内的定时任务
type CronManager struct {
	engine *cron.Cron
	logger *logger.Logger
}

func NewCronManager(logger *logger.Logger) *CronManager {
	return &CronManager{
		engine: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger: logger,
	}
}

// Register 支持标准 5 段表达式与 @every 描述符
func (m *CronManager) Register(spec string, job cron.Job) error {
	if _, err := m.engine.AddJob(spec, job); err != nil {
		return fmt.Errorf("failed to register job %q: %w", spec, err)
	}
	return nil
}

func (m *CronManager) Start() {
	m.logger.Info("Cron engine started")
	m.engine.Start()
}

// Stop waits for running jobs or ctx, whichever comes first.
func (m *CronManager) Stop(ctx context.Context) {
	done := m.engine.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	m.logger.Info("Cron engine stopped")
}
