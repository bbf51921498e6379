package main

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"meldify/internal/monitor"
	"meldify/internal/transcoder"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check encoder, probe and host readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			rows := []table.Row{}

			engine, err := transcoder.NewEngine(runCtx, transcoder.EngineConfig{
				FFmpegPath: cfg.FFmpegPath,
				AllowHW:    cfg.EnableHWAccel,
			})
			if err != nil {
				rows = append(rows, table.Row{"ffmpeg", "missing", err.Error()})
			} else {
				rows = append(rows,
					table.Row{"ffmpeg", "ok", engine.FFmpegPath},
					table.Row{"h264 encoder", "ok", engine.GetCodec()},
					table.Row{"nvenc", yesNo(engine.HasHWAccel), hwNote(cfg.EnableHWAccel)},
					table.Row{"prores_ks", yesNo(engine.HasProRes), ""},
				)
			}

			probe := cfg.FFprobePath
			if probe == "" {
				probe = "ffprobe"
			}
			if path, err := exec.LookPath(probe); err != nil {
				rows = append(rows, table.Row{"ffprobe", "missing", "metadata tiers disabled"})
			} else {
				rows = append(rows, table.Row{"ffprobe", "ok", path})
			}

			mon := monitor.NewSystemMonitor(200 * time.Millisecond)
			if info, err := mon.GetHostInfo(runCtx); err == nil {
				rows = append(rows,
					table.Row{"host", info.Hostname, info.Platform},
					table.Row{"cpu", fmt.Sprintf("%d threads", info.LogicalCores), info.CPUModel},
					table.Row{"memory", humanize.IBytes(info.TotalRAM), ""},
				)
			}
			if stats, err := mon.GetStats(runCtx); err == nil {
				rows = append(rows, table.Row{"load",
					fmt.Sprintf("cpu %.0f%% ram %.0f%%", stats.CPUUsage, stats.RAMUsage),
					monitor.HostStatus(stats, 0)})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(table.Row{"Check", "Status", "Detail"}, rows))
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func hwNote(enabled bool) string {
	if enabled {
		return "enabled in config"
	}
	return "disabled in config"
}
