package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hunky/internal/config"
	"github.com/zjrosen/hunky/internal/engine"
	"github.com/zjrosen/hunky/internal/git"
	"github.com/zjrosen/hunky/internal/log"
	"github.com/zjrosen/hunky/internal/paths"
	"github.com/zjrosen/hunky/internal/pubsub"
	"github.com/zjrosen/hunky/internal/ui"
	"github.com/zjrosen/hunky/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "hunky [path]",
	Short:   "Stream uncommitted git changes as they happen",
	Long:    `A terminal UI that watches a git repository and streams uncommitted changes hunk by hunk, keeping track of what you have already reviewed.`,
	Args:    cobra.MaximumNArgs(1),
	Version: version,
	RunE:    runApp,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.LocalConfigPath(".")
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/hunky/config.yaml)")
	rootCmd.Flags().StringP("repo", "r", "",
		"repository to watch (default: current directory)")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log")
	rootCmd.Flags().Bool("no-auto-stream", false,
		"start in buffered mode: advance hunks manually")

	_ = viper.BindPFlag("repo", rootCmd.Flags().Lookup("repo"))
	_ = viper.BindPFlag("debug.enabled", rootCmd.Flags().Lookup("debug"))

	rootCmd.AddCommand(initCmd)
}

func initConfig() {
	defaults := config.Default()
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("diff.context_lines", defaults.Diff.ContextLines)
	viper.SetDefault("stream.mode", defaults.Stream.Mode)
	viper.SetDefault("stream.speed", defaults.Stream.Speed)
	viper.SetDefault("stream.view", defaults.Stream.View)
	viper.SetDefault("ui.wrap_lines", defaults.UI.WrapLines)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("debug.log_path", defaults.Debug.LogPath)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .hunky/config.yaml (current directory)
		// 2. ~/.config/hunky/config.yaml (user config)
		local := config.LocalConfigPath(".")
		if _, err := os.Stat(local); err == nil {
			viper.SetConfigFile(local)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "hunky"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Missing config is fine; anything else the user should know about.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg.Repo = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if noAuto, _ := cmd.Flags().GetBool("no-auto-stream"); noAuto {
		cfg.Stream.Mode = "buffered"
	}

	if cfg.Debug.Enabled {
		closeLog, err := log.Init(cfg.Debug.LogPath)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer closeLog()
	}

	dir, err := paths.ResolveRepoDir(cfg.Repo)
	if err != nil {
		return fmt.Errorf("resolving repository path: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exec := git.NewRealExecutor()
	root, err := exec.RepoRoot(ctx, dir)
	if err != nil {
		return fmt.Errorf("resolving repository at %s: %w", dir, err)
	}

	builder := git.NewSnapshotBuilder(exec, root, cfg.Diff.ContextLines)
	snap, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("reading initial diff: %w", err)
	}

	eng := engine.New(snap, cfg.EngineOptions())

	w, err := watcher.New(watcher.Config{Root: root, DebounceDur: cfg.Debounce()})
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}

	broker := pubsub.NewBroker[ui.ChangeSignal]()

	// Bridge the watcher's coalesced signal into the update loop.
	go func() {
		for range changes {
			broker.Publish(pubsub.ChangedEvent, ui.ChangeSignal{})
		}
	}()

	model := ui.New(ctx, eng, builder, broker, ui.Options{
		ShowStatusBar: cfg.UI.ShowStatusBar,
		OnClose: func() {
			if err := w.Stop(); err != nil {
				log.ErrorErr(log.CatWatcher, "stopping watcher", err)
			}
			broker.Close()
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
