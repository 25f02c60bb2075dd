package app

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/commercekit/salesapi/internal/bi"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedRevenueSummaryTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// SchedSystemMonitorTask logs process and system resource usage
func (a *Application) SchedSystemMonitorTask() {
	cpuPercents, err := cpu.Percent(0, false)
	cpuPercent := 0.0
	if err == nil && len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	vmem, err := mem.VirtualMemory()
	memPercent := 0.0
	if err == nil {
		memPercent = vmem.UsedPercent
	}

	var rss uint64
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			rss = info.RSS
		}
	}

	zap.L().Debug("system monitor",
		zap.Float64("cpu_percent", cpuPercent),
		zap.Float64("mem_percent", memPercent),
		zap.Uint64("rss_bytes", rss))
}

// SchedRevenueSummaryTask logs the previous day's total valid-sale
// revenue. Runs daily just after midnight.
func (a *Application) SchedRevenueSummaryTask() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	yesterday := time.Now().AddDate(0, 0, -1)
	revenue, err := bi.NewAggregator(a.gormDB).RevenueOverRange(ctx, yesterday, yesterday)
	if err != nil {
		zap.L().Error("daily revenue summary failed", zap.Error(err))
		return
	}
	zap.L().Info("daily revenue summary",
		zap.String("date", yesterday.Format("2006-01-02")),
		zap.Float64("revenue", revenue))
}
