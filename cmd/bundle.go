package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SUSE/fullstack-bundler/app"
	"github.com/SUSE/fullstack-bundler/writer"
)

var bundleViper = viper.New()

var bundleCmd = &cobra.Command{
	Use:   "bundle <app-dir> <output-dir>",
	Short: "Resolves, compiles, links, and writes an application bundle.",
	Long: `
Builds the application rooted at <app-dir> and writes the resulting tree to
<output-dir>. The output directory is replaced atomically: a partial or
failed run never corrupts a previously-written bundle.
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := bundleOptionsFromFlags()
		if err != nil {
			return err
		}
		applyPlatformFlags()

		appDir, err := absPath(bundler.FS, args[0])
		if err != nil {
			return err
		}
		outputPath, err := absPath(bundler.FS, args[1])
		if err != nil {
			return err
		}

		errStrings := bundler.Bundle(appDir, outputPath, opts)
		if len(errStrings) > 0 {
			return fmt.Errorf("bundling failed:\n%s", strings.Join(errStrings, "\n"))
		}
		return nil
	},
}

var bundleValidateCmd = &cobra.Command{
	Use:   "validate <app-dir>",
	Short: "Resolves dependencies and computes load order without writing a bundle.",
	Long: `
Runs dependency resolution and load-order computation only — the fast
feedback loop for catching cycle, resolution, and configuration errors
without paying for compilation, linking, or writing.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := bundleOptionsFromFlags()
		if err != nil {
			return err
		}
		opts.NoMinify = true
		if rm := bundleViper.GetString("release-manifest"); rm != "" {
			bundler.ReleaseManifest = rm
		}

		appDir, err := absPath(bundler.FS, args[0])
		if err != nil {
			return err
		}

		errStrings := bundler.Validate(appDir, opts)
		if len(errStrings) > 0 {
			return fmt.Errorf("validation failed:\n%s", strings.Join(errStrings, "\n"))
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	initViper(bundleViper)

	RootCmd.AddCommand(bundleCmd)
	bundleCmd.AddCommand(bundleValidateCmd)

	for _, cmd := range []*cobra.Command{bundleCmd, bundleValidateCmd} {
		cmd.PersistentFlags().StringP("release", "r", "", "Release version string embedded in the bundle manifest.")
		cmd.PersistentFlags().StringP("node-modules-mode", "n", "copy", "How to install native-module trees: skip, copy, or symlink.")
		cmd.PersistentFlags().StringSliceP("test-package", "t", nil, "Name of a package to also resolve at test role (repeatable).")
		cmd.PersistentFlags().String("release-manifest", "", "Path to the release manifest packages are resolved against.")
	}
	bundleCmd.PersistentFlags().Bool("no-minify", false, "Skip the minification stage.")
	bundleCmd.PersistentFlags().String("server-runtime-dir", "", "Directory of server runtime files copied verbatim into build/server.")
	bundleCmd.PersistentFlags().String("platform-node-modules", "", "Prebuilt platform node_modules root to install per --node-modules-mode.")
	bundleCmd.PersistentFlags().String("platform-bundle-version-file", "", "Platform bundle-version marker file copied to build/server/.bundle_version.txt.")
	bundleCmd.PersistentFlags().String("app-html-template", "", "Path to an app.html template file (default: built-in shell).")
	bundleCmd.PersistentFlags().Bool("strict-server-css", false, "Treat server-environment CSS resources as a fatal error instead of silently dropping them.")

	bundleViper.BindPFlags(bundleCmd.PersistentFlags())
	bundleViper.BindPFlags(bundleValidateCmd.PersistentFlags())
}

// applyPlatformFlags copies the bundle command's platform-path flags onto
// the shared Bundler just before a run. The bundler process only ever
// drives one command per invocation, so mutating it here is safe.
func applyPlatformFlags() {
	if rm := bundleViper.GetString("release-manifest"); rm != "" {
		bundler.ReleaseManifest = rm
	}
	bundler.ServerRuntimeDir = bundleViper.GetString("server-runtime-dir")
	bundler.PlatformNodeModules = bundleViper.GetString("platform-node-modules")
	bundler.PlatformBundleVersionFile = bundleViper.GetString("platform-bundle-version-file")
	bundler.StrictServerCSS = bundleViper.GetBool("strict-server-css")

	bundler.AppHTMLTemplate = defaultAppHTML
	if path := bundleViper.GetString("app-html-template"); path != "" {
		if data, err := afero.ReadFile(bundler.FS, path); err == nil {
			bundler.AppHTMLTemplate = string(data)
		}
	}
}

func bundleOptionsFromFlags() (app.Options, error) {
	mode := writer.NodeModulesMode(bundleViper.GetString("node-modules-mode"))
	opts := app.Options{
		Release:         bundleViper.GetString("release"),
		NodeModulesMode: mode,
		TestPackages:    bundleViper.GetStringSlice("test-package"),
		NoMinify:        bundleViper.GetBool("no-minify"),
	}
	if err := opts.Validate(); err != nil {
		return app.Options{}, err
	}
	return opts, nil
}
