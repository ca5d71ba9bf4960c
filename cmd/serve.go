package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ordinskiy/rl/bridge"
)

func ServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the bridge API with the simulated backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("bridge listening on %s\n", bridgeAddr)
			return bridge.NewServer(bridgeAddr).Start()
		},
	}
}
