// Command chokidar-watch is a small CLI demonstrating the chokidar watch
// engine: it watches the paths given on the command line (or in a YAML
// configuration file) and prints a colorized line for every event the
// engine emits, until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/electric-eloquence/chokidar"
	chokidarcmd "github.com/electric-eloquence/chokidar/cmd"
	"github.com/electric-eloquence/chokidar/pkg/buildinfo"
	"github.com/electric-eloquence/chokidar/pkg/logging"
)

func watchMain(command *cobra.Command, arguments []string) error {
	if rootConfiguration.version {
		fmt.Println(buildinfo.Version)
		return nil
	}

	fileConfig, err := loadFileConfiguration(rootConfiguration.config, command.Flags().Changed("config"))
	if err != nil {
		return err
	}

	paths := arguments
	if len(paths) == 0 {
		paths = fileConfig.Paths
	}
	if len(paths) == 0 {
		return errors.New("no paths specified (pass as arguments or via --config)")
	}

	opts := chokidar.DefaultOptions()

	opts.UsePolling = rootConfiguration.poll || fileConfig.Poll || rootConfiguration.interval > 0
	if rootConfiguration.interval > 0 && !rootConfiguration.poll {
		chokidarcmd.Warning("--interval was set without --poll; enabling polling implicitly")
	}
	if rootConfiguration.interval > 0 {
		opts.Interval = rootConfiguration.interval
	} else if fileConfig.IntervalMilliseconds > 0 {
		opts.Interval = time.Duration(fileConfig.IntervalMilliseconds) * time.Millisecond
	}
	if rootConfiguration.binaryInterval > 0 {
		opts.BinaryInterval = rootConfiguration.binaryInterval
	} else if fileConfig.BinaryIntervalMs > 0 {
		opts.BinaryInterval = time.Duration(fileConfig.BinaryIntervalMs) * time.Millisecond
	}
	opts.EnableBinaryInterval = rootConfiguration.enableBinaryInterval || fileConfig.EnableBinaryInterval

	opts.FollowSymlinks = !rootConfiguration.noFollowSymlinks
	if fileConfig.FollowSymlinks != nil && !command.Flags().Changed("no-follow-symlinks") {
		opts.FollowSymlinks = *fileConfig.FollowSymlinks
	}

	opts.IgnoreInitial = rootConfiguration.ignoreInitial || fileConfig.IgnoreInitial

	opts.Depth = rootConfiguration.depth
	if fileConfig.Depth != nil && !command.Flags().Changed("depth") {
		opts.Depth = *fileConfig.Depth
	}

	opts.Cwd = fileConfig.Cwd

	ignorePatterns := append(append([]string{}, fileConfig.Ignore...), rootConfiguration.ignore...)
	if len(ignorePatterns) > 0 {
		ignored, err := chokidar.NewGlobIgnorer(ignorePatterns)
		if err != nil {
			return errors.Wrap(err, "invalid --ignore pattern")
		}
		opts.Ignored = ignored
	}

	level, ok := logging.NameToLevel(rootConfiguration.logLevel)
	if !ok {
		return errors.Errorf("invalid --log-level value: %s", rootConfiguration.logLevel)
	}
	logging.RootLogger.SetLevel(level)

	if rootConfiguration.verbose {
		opts.Logger = logging.RootLogger.Sublogger("chokidar-watch")
		printVerboseStatus(opts)
	}

	watcher := chokidar.New(opts, paths...)
	defer watcher.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, chokidarcmd.TerminationSignals...)

	for {
		select {
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			printEvent(ev)
		case <-signals:
			return nil
		}
	}
}

var rootCommand = &cobra.Command{
	Use:   "chokidar-watch [paths...]",
	Short: "Watch files and directories for changes",
	Run:   chokidarcmd.Mainify(watchMain),
}

var rootConfiguration struct {
	help                 bool
	version              bool
	verbose              bool
	poll                 bool
	interval             time.Duration
	binaryInterval       time.Duration
	enableBinaryInterval bool
	noFollowSymlinks     bool
	ignoreInitial        bool
	depth                int
	config               string
	ignore               []string
	logLevel             string
}

func init() {
	flags := rootCommand.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")
	flags.BoolVarP(&rootConfiguration.verbose, "verbose", "v", false, "Print effective configuration before watching")
	flags.BoolVar(&rootConfiguration.poll, "poll", false, "Use stat-based polling instead of native OS events")
	flags.DurationVar(&rootConfiguration.interval, "interval", 0, "Polling interval (implies --poll)")
	flags.DurationVar(&rootConfiguration.binaryInterval, "binary-interval", 0, "Polling interval for binary files")
	flags.BoolVar(&rootConfiguration.enableBinaryInterval, "enable-binary-interval", false, "Use --binary-interval for binary files")
	flags.BoolVar(&rootConfiguration.noFollowSymlinks, "no-follow-symlinks", false, "Treat symbolic links as leaf entities instead of following them")
	flags.BoolVar(&rootConfiguration.ignoreInitial, "ignore-initial", false, "Suppress add/addDir events for paths that already exist")
	flags.IntVar(&rootConfiguration.depth, "depth", -1, "Limit recursion depth (-1 for unlimited)")
	flags.StringVar(&rootConfiguration.config, "config", "chokidar.yml", "Path to a YAML configuration file")
	flags.StringArrayVar(&rootConfiguration.ignore, "ignore", nil, "Glob pattern to ignore (may be repeated)")
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "info", "Log level (disabled, error, warn, info, debug, trace)")

	cobra.EnableCommandSorting = false
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		chokidarcmd.Fatal(err)
	}
}
