package cli

import (
	"fmt"
	"os"

	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand builds the polarctl command tree. Settings resolve from
// flags, then POLARCTL_* environment variables, then the config file.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "polarctl",
		Short: "Inspect and edit sailing polar files",
		Long: `polarctl reads polar performance files (wind speed followed by
angle/boat speed pairs per line) and evaluates, densifies and partitions them
offline.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.polarctl.yaml)")
	root.PersistentFlags().Float64("tolerance", polar.DefaultBandTolerance, "band tolerance in knots")
	cobra.CheckErr(v.BindPFlag("tolerance", root.PersistentFlags().Lookup("tolerance")))

	root.AddCommand(
		newShowCommand(v),
		newEvalCommand(),
		newDensifyCommand(),
		newRangesCommand(),
		newClassifyCommand(v),
		newFmtCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("polarctl")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigType("yaml")
	v.SetConfigName(".polarctl")
	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
	return nil
}

func loadModel(path string) (*polar.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := polar.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func tolerance(v *viper.Viper) float64 {
	t := v.GetFloat64("tolerance")
	if t <= 0 {
		return polar.DefaultBandTolerance
	}
	return t
}
