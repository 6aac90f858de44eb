package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/LixenWraith/logger"
	"github.com/spf13/cobra"

	"github.com/celes-lang/celes/parse/toml"
	"github.com/celes-lang/celes/pkg"
)

type BuildParams struct {
	Project string
	LogDir  string
}

var buildParams *BuildParams

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the project described by Project.toml",
	Run:   buildRun,
}

func init() {
	buildParams = &BuildParams{}
	buildCmd.Flags().StringVarP(&buildParams.Project, "project", "p", "Project.toml", "project file path")
	buildCmd.Flags().StringVar(&buildParams.LogDir, "log-dir", "", "directory for build logs")
}

func buildRun(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	if buildParams.LogDir != "" {
		if err := logger.Init(ctx, &logger.LoggerConfig{
			Directory:  buildParams.LogDir,
			BufferSize: 1024,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := logger.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Error shutting down logger: %v\n", err)
			}
		}()
		logger.Info(ctx, "Starting build", "project", buildParams.Project)
	}

	exist, err := pkg.CheckFileExist(buildParams.Project)
	if err != nil {
		fmt.Println("check file exist error:", err)
		os.Exit(1)
	}
	if !exist {
		fmt.Println("Could not find", buildParams.Project)
		os.Exit(1)
	}

	config, err := toml.Open(buildParams.Project)
	if err != nil {
		var perr *toml.ParseError
		if errors.As(err, &perr) {
			fmt.Printf("Error parsing file:\n%s\n", perr.Diagnostics)
		} else {
			fmt.Println("Could not find", buildParams.Project)
		}
		if buildParams.LogDir != "" {
			logger.Error(ctx, "Build failed", "error", err, "code", toml.Code(err))
		}
		os.Exit(1)
	}
	defer config.Release()

	name := toml.GetString(config, "Build", "Name")
	if name == "" {
		fmt.Println("No program name specified")
		os.Exit(1)
	}

	if buildParams.LogDir != "" {
		logger.Info(ctx, "Project parsed", "name", name)
	}

	fmt.Println("Building", name)
}
