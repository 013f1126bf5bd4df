package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SUSE/fullstack-bundler/app"
)

var (
	cfgFile string
	bundler *app.Bundler
	version string
	logger  = logrus.StandardLogger()

	flagVerbose bool
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "bundler",
	Short: "Bundles a full-stack web application into a deployable tree.",
	Long: `
bundler resolves a full-stack application's package dependencies, compiles
and links its sources, and writes a self-contained deployable bundle.

It walks the application's declared (or scanned) package graph, compiles
each package's sources for both the client and server environments, links
and aggregates the results, optionally minifies them, and writes the final
tree to an output directory.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flagVerbose = viper.GetBool("verbose")
		if flagVerbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

// Execute runs RootCmd. b is the configured Bundler every subcommand
// drives; v is the build version string reported by the version command.
func Execute(b *app.Bundler, v string) error {
	bundler = b
	version = v
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bundler.yaml)")
	RootCmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose (debug-level) logging.")

	viper.BindPFlags(RootCmd.PersistentFlags())
}

func initConfig() {
	initViper(viper.GetViper())
}

func initViper(v *viper.Viper) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	v.SetEnvPrefix("BUNDLER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetConfigName(".bundler")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		if v == viper.GetViper() {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// absPath resolves path against the real OS filesystem's notion of the
// working directory, except when fs is an in-memory filesystem (tests),
// where paths are already absolute by construction.
func absPath(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if _, ok := fs.(*afero.MemMapFs); ok {
		return path, nil
	}
	return filepath.Abs(path)
}
