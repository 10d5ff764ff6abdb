package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/go-distributed-raytracer/pkg/scene"
	"github.com/df07/go-distributed-raytracer/pkg/tonemap"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List built-in scenes and tone mapping operators.
func ListScenes(ctx *cli.Context) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Needs mesh", "Description"})
	for _, info := range scene.ListScenes() {
		table.Append([]string{
			info.ID,
			info.DisplayName,
			fmt.Sprintf("%t", info.NeedsMesh),
			info.Description,
		})
	}
	table.Render()

	fmt.Fprintf(&buf, "\ntone mapping operators: %v\n", tonemap.Names())
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}
