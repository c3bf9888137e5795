package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mathdee/quorum/internal/config"
)

// envPrefix mirrors the original's configurability-by-environment habit:
// every flag can also be set as QUORUM_LISTEN, QUORUM_PEER, etc.
const envPrefix = "QUORUM"

func newRootCommand() *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:           "quorumd",
		Short:         "Run a quorum cluster member",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file")
	config.BindFlags(root.PersistentFlags())

	cobra.OnInitialize(func() {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		_ = v.BindPFlags(root.PersistentFlags())

		if configFile != "" {
			v.SetConfigFile(configFile)
			_ = v.ReadInConfig()
		}
	})

	root.AddCommand(newRunCommand(v))
	return root
}
