package restapi

import (
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/commercekit/salesapi/internal/webserver"
)

var startedAt = time.Now()

type healthStatus struct {
	Status     string  `json:"status"`
	Hostname   string  `json:"hostname"`
	Pid        int     `json:"pid"`
	UptimeSec  int64   `json:"uptime_sec"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	Database   string  `json:"database"`
}

func registerSystemRoutes() {
	webserver.ApiGET("/system/health", getHealth)
}

func getHealth(c echo.Context) error {
	status := healthStatus{
		Status:    "ok",
		Pid:       os.Getpid(),
		UptimeSec: int64(time.Since(startedAt).Seconds()),
		Database:  "ok",
	}

	if info, err := host.Info(); err == nil {
		status.Hostname = info.Hostname
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil {
		status.MemPercent = vmem.UsedPercent
	}

	if sqlDB, err := GetDB(c).DB(); err != nil {
		status.Database = "error"
		status.Status = "degraded"
	} else if err := sqlDB.PingContext(c.Request().Context()); err != nil {
		status.Database = "error"
		status.Status = "degraded"
	}

	return ok(c, status)
}
