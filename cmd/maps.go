package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ordinskiy/rl/envs/smac"
)

func MapsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "maps",
		Short: "List the scenarios known to the bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			if av := smac.Probe(bridgeAddr); !av.Available {
				fmt.Printf("bridge at %s is not available: %s\n", bridgeAddr, av.Reason)
				fmt.Println("no scenarios; start one with `rl serve`")
				return nil
			}
			scenarios, err := smac.Scenarios(bridgeAddr)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Map", "Agents", "Enemies", "Episode limit")
			for _, s := range scenarios {
				table.Append(
					s.Name,
					fmt.Sprintf("%d", s.NAgents),
					fmt.Sprintf("%d", s.NEnemies),
					fmt.Sprintf("%d", s.EpisodeLimit),
				)
			}
			table.Render()
			return nil
		},
	}
}
