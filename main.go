package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/SUSE/fullstack-bundler/app"
	"github.com/SUSE/fullstack-bundler/cmd"
	"github.com/SUSE/fullstack-bundler/linker"
	"github.com/SUSE/fullstack-bundler/loader"
	"github.com/SUSE/fullstack-bundler/minifier"
	"github.com/SUSE/fullstack-bundler/templates"
	"github.com/SUSE/fullstack-bundler/util"
)

var version string

func main() {
	fs := afero.NewOsFs()
	ignore := util.DefaultIgnoreList()

	bundler := &app.Bundler{
		FS:          fs,
		Loader:      loader.NewDiskLoader(fs),
		Linker:      linker.ConcatLinker{},
		JSMinifier:  minifier.WhitespaceJSMinifier{},
		CSSMinifier: minifier.WhitespaceCSSMinifier{},
		Expand:      templates.Expand,
		Ignore:      ignore,
		Logger:      logrus.StandardLogger(),
	}

	if err := cmd.Execute(bundler, version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
