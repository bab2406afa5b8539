package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-devotional/internal/config"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls (like closing the
// log file) run before the process terminates.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain executes the command line and maps the outcome to an exit code.
func runMain(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts, root := newRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	defer opts.closeLog()

	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

// options carries the parsed flags of one invocation.
type options struct {
	configPath string
	debug      bool
	version    bool

	date   string
	scheme string
	offset int
	undo   bool

	logFile io.Closer
}

func (o *options) closeLog() {
	if o.logFile != nil {
		_ = o.logFile.Close() // Best effort close
		o.logFile = nil
	}
}

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// out of package globals.
func newRootCmd() (*options, *cobra.Command) {
	opts := &options{}

	root := &cobra.Command{
		Use:          config.CmdRoot,
		Short:        config.ShortRoot,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.logFile = setupLogging(cmd.ErrOrStderr(), opts.debug)
			loadEnv()
			logStartupInfo()
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.version {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, config.FlagConfig, "", config.FlagDescConfig)
	root.PersistentFlags().BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	root.Flags().BoolVar(&opts.version, config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(
		newHeaderCmd(opts),
		newWeekCmd(opts),
		newPeopleCmd(opts),
		newDoneCmd(opts),
		newServeCmd(opts),
	)
	return opts, root
}

// loadEnv reads overrides from a .env file in the working directory.
// A missing file is the common case and is not reported.
func loadEnv() {
	if err := godotenv.Load(config.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn(config.ErrEnvFile,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyFile, config.EnvFile,
			config.LogKeyError, err,
		)
	}
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger to write JSON to console
// and to a log file in the user's cache directory. Console output goes to
// stderr so that command output on stdout stays clean.
func setupLogging(console io.Writer, debugMode bool) io.Closer {
	writers := []io.Writer{console}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			_, _ = fmt.Fprintf(console, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
