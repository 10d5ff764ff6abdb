package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/dispatch"
	"github.com/df07/go-distributed-raytracer/pkg/renderer"
	"github.com/df07/go-distributed-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
)

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func displayHostInfo(host renderer.HostInfo) {
	memory := "unknown"
	if host.TotalMemory > 0 {
		memory = fmt.Sprintf("%.1f GiB", float64(host.TotalMemory)/(1<<30))
	}
	logger.Noticef("host: %s, %d logical cores, %s memory", host.CPUModel, host.LogicalCores, memory)
}

func displaySceneStats(name string, stats scene.Stats) {
	var buf bytes.Buffer
	table := newTable(&buf, []string{"Primitives", "Spheres", "Triangles", "Materials", "Lights", "Nodes", "Leaves", "Depth", "Max leaf", "References"})
	table.Append([]string{
		fmt.Sprint(stats.Primitives),
		fmt.Sprint(stats.Spheres),
		fmt.Sprint(stats.Triangles),
		fmt.Sprint(stats.Materials),
		fmt.Sprint(stats.Lights),
		fmt.Sprint(stats.Index.Nodes),
		fmt.Sprint(stats.Index.Leaves),
		fmt.Sprint(stats.Index.MaxDepth),
		fmt.Sprint(stats.Index.MaxLeafSize),
		fmt.Sprint(stats.Index.References),
	})
	table.Render()
	logger.Noticef("scene %s\n%s", name, buf.String())
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := newTable(&buf, []string{"Worker", "Pixels", "% of frame", "Busy time"})
	for id := range stats.WorkerPixels {
		share := 0.0
		if stats.Pixels > 0 {
			share = 100 * float64(stats.WorkerPixels[id]) / float64(stats.Pixels)
		}
		table.Append([]string{
			fmt.Sprint(id),
			fmt.Sprint(stats.WorkerPixels[id]),
			fmt.Sprintf("%02.1f %%", share),
			stats.WorkerBusy[id].String(),
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d chunks", stats.Chunks), fmt.Sprintf("%.0f samples/s", stats.SamplesPerSecond()), stats.Duration.String()})
	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}

func displayDispatchStats(stats []dispatch.WorkerStats, total time.Duration) {
	var buf bytes.Buffer
	table := newTable(&buf, []string{"Worker", "Pixels", "Sent", "Received", "Time", "Status"})
	for _, stat := range stats {
		status := "ok"
		if stat.Err != nil {
			status = stat.Err.Error()
		}
		table.Append([]string{
			stat.Address,
			fmt.Sprintf("[%d, %d)", stat.Range.Start, stat.Range.End()),
			fmt.Sprint(stat.BytesSent),
			fmt.Sprint(stat.BytesReceived),
			stat.Duration.String(),
			status,
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", total.String()})
	table.Render()
	logger.Noticef("dispatch statistics\n%s", buf.String())
}
