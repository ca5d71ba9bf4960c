package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ordinskiy/rl/envs/smac"
)

var (
	cfgFile    string
	bridgeAddr string
)

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rl",
		Short: "Tensor-record RL toolkit with a SMAC environment adapter",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./rl.yaml)")
	cmd.PersistentFlags().StringVar(&bridgeAddr, "bridge", smac.DefaultBridgeAddr, "bridge address host:port")
	viper.BindPFlag("bridge_addr", cmd.PersistentFlags().Lookup("bridge"))

	cmd.AddCommand(
		MapsCommand(),
		RunCommand(),
		ServeCommand(),
	)
	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("rl")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("RL")
	viper.AutomaticEnv()

	// A missing config file is fine, flags and env cover everything.
	_ = viper.ReadInConfig()

	if addr := viper.GetString("bridge_addr"); addr != "" {
		bridgeAddr = addr
	}
}
