package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ordinskiy/rl/analysis"
	"github.com/ordinskiy/rl/bridge"
	"github.com/ordinskiy/rl/envs"
	"github.com/ordinskiy/rl/envs/smac"
)

func RunCommand() *cobra.Command {
	var (
		mapName  string
		episodes int
		horizon  int
		seed     int64
		local    bool
		plotFile string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run random-policy episodes against a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := smac.Config{Seed: seed, BridgeAddr: bridgeAddr}

			var env *smac.Wrapper
			var err error
			if local {
				sim, simErr := bridge.NewSim(mapName, seed, nil)
				if simErr != nil {
					return simErr
				}
				cfg.Client = sim
				env, err = smac.NewWrapper(cfg)
			} else {
				env, err = smac.NewEnv(mapName, cfg)
			}
			if err != nil {
				return err
			}
			defer env.Close()

			if horizon <= 0 {
				horizon = env.Info().EpisodeLimit
			}
			returns := analysis.NewReturns()
			runner := envs.NewRunner(
				env,
				envs.NewRandomPolicy(uint64(seed)),
				envs.RunConfig{Episodes: episodes, Horizon: horizon},
				envs.WithAnalyzer(returns),
			)
			result, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("completed %d/%d episodes, %d steps, mean return %.2f\n",
				result.CompletedEpisodes, episodes, result.TotalSteps, returns.Mean())
			if plotFile != "" {
				if err := returns.SavePlot(plotFile); err != nil {
					return err
				}
				fmt.Printf("return curve written to %s\n", plotFile)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mapName, "map", "8m", "scenario name")
	cmd.Flags().IntVar(&episodes, "episodes", 10, "number of episodes")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "max steps per episode (0 = scenario episode limit)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "environment seed, fixed at construction")
	cmd.Flags().BoolVar(&local, "local", false, "run the simulated backend in-process instead of the bridge")
	cmd.Flags().StringVar(&plotFile, "plot", "", "write the return curve PNG to this file")
	return cmd
}
