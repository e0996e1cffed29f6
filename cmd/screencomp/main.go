// Copyright 2025 The screencomp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the screencomp terminal host, IPC server and CLI [DBG] application.

screencomp completes the word left of the cursor from words already on
screen. Candidates are every distinct token of the visible text (and
optionally the scrollback) extending the typed prefix, indexed in a
Patricia trie and listed in byte order in a pager drawn over the terminal.

# Usage

Start the interactive host over the output of a command:

	make 2>&1 | screencomp

or over a saved capture, with debug logging:

	screencomp -text build.log -d

Type into the prompt row and press Alt-/ (or Ctrl-]) to complete the word
left of the cursor. While the pager is open:

	Up, Ctrl-p, Alt-p          previous candidate
	Down, Ctrl-n, Alt-n        next candidate
	PgUp, Ctrl-b, Alt-v        previous page
	PgDown, Ctrl-f, Ctrl-v     next page
	Space, Enter               write the selected candidate
	Tab                        extend to the common prefix, or step
	Esc                        close

A single candidate is written out straight away without a pager.

# Configuration

Runtime configuration lives in $XDG_CONFIG_HOME/screencomp/config.toml and
is created with defaults if missing:

	[engine]
	scrollback = true
	url_tokens = true
	min_prefix = 1

	[keys]
	activate = ["alt+/", "ctrl+]"]
	page_next = ["pgdown", "ctrl+f", "ctrl+v"]

	[server]
	max_limit = 256
	default_limit = 24

The host and the IPC server reload the file when it changes.

# IPC Protocol

With -ipc the binary reads msgpack frames on stdin and answers on stdout:

	{"id": "req1", "x": "hello world help", "p": "he", "l": 20}
	{"id": "req1", "s": [{"w": "hello", "r": 1}, {"w": "help", "r": 2}], "c": 2, "cp": "hel", "t": 31}

# CLI Mode

-c reads prefixes from stdin, one per line, and lists the candidates found
in the -text file. It is meant for checking tokenization by hand.

# Command Line Flags

	-text string
	    File holding the text to complete from ("-" for stdin)
	-config string
	    Path to a custom config file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode
	-ipc
	    Run the msgpack IPC server
	-limit int
	    Number of candidates the CLI prints
	-log string
	    Log file of the interactive host
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/screencomp/internal/cli"
	"github.com/bastiangx/screencomp/internal/host"
	"github.com/bastiangx/screencomp/internal/logger"
	"github.com/bastiangx/screencomp/internal/utils"
	"github.com/bastiangx/screencomp/pkg/config"
	"github.com/bastiangx/screencomp/pkg/server"
	"github.com/bastiangx/screencomp/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const (
	Version = "0.3.0-beta"
	AppName = "screencomp"
	gh      = "https://github.com/bastiangx/screencomp"
)

// main parses flags and hands over to the host, the server or the CLI.
// main() does not implement logic for them and only manages the flow.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	ipcMode := flag.Bool("ipc", false, "Run the msgpack IPC server on stdin/stdout")
	textPath := flag.String("text", "", "File holding the text to complete from (\"-\" for stdin)")
	configPath := flag.String("config", "", "Path to a custom config file")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of candidates to print in CLI mode (0 for all)")
	logPath := flag.String("log", "", "Log file of the interactive host (default in $XDG_STATE_HOME)")
	rebuild := flag.Bool("rebuild-config", false, "Write a fresh default config file and exit")
	showInfo := flag.Bool("info", false, "Print resolved paths and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetOutput(os.Stderr)

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	if *showInfo {
		for k, v := range pathResolver.GetRuntimeInfo() {
			fmt.Printf("%-15s %s\n", k, v)
		}
		fmt.Printf("%-15s %s\n", "config", config.GetActiveConfigPath(*configPath))
		os.Exit(0)
	}

	if *rebuild {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Config rebuilt", "path", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *ipcMode:
		runServer(ctx, appConfig, activePath)
	case *cliMode:
		runCLI(appConfig, *textPath, *limit)
	default:
		runHost(ctx, pathResolver, appConfig, activePath, *textPath, *logPath)
	}
}

func runServer(ctx context.Context, cfg *config.Config, configPath string) {
	log.Debug("spawning IPC")
	completer := suggest.NewBuilder(cfg.Engine.URLTokens)
	srv := server.NewServer(completer, cfg, configPath)

	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, configPath, srv.ApplyConfig); err != nil {
				log.Warnf("Config watch stopped: %v", err)
			}
		}()
	}

	showStartupInfo(configPath)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	select {
	case err := <-done:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
	}
}

func runCLI(cfg *config.Config, textPath string, limit int) {
	log.SetReportTimestamp(false)
	seed := ""
	if textPath != "" && textPath != "-" {
		text, err := utils.ReadSeedText(textPath, nil)
		if err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		seed = text
	}

	log.Debug("Input info:", "seedBytes", len(seed), "maxPrefix", cfg.Server.MaxPrefix, "limit", limit)
	inputHandler := cli.NewInputHandler(suggest.NewBuilder(cfg.Engine.URLTokens), seed, cfg.Server.MaxPrefix, limit, log.Default())
	if err := inputHandler.Start(os.Stdin); err != nil {
		log.Fatalf("CLI error: %v", err)
	}
}

func runHost(ctx context.Context, pr *utils.PathResolver, cfg *config.Config, configPath, textPath, logPath string) {
	piped := !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())

	var seed string
	if textPath != "" || piped {
		text, err := utils.ReadSeedText(textPath, os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read text: %v", err)
		}
		seed = text
	}

	if logPath == "" {
		logPath = pr.GetLogPath(AppName + ".log")
	}
	hostLog, closer, err := logger.NewFile(logPath, "host")
	if err != nil {
		log.Warnf("Logging disabled: %v", err)
		hostLog = logger.Discard()
	} else {
		defer closer.Close()
	}

	err = host.Run(ctx, host.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Seed:       seed,
		InputTTY:   piped || textPath == "-",
		Logger:     hostLog,
	})
	if err != nil {
		log.Fatalf("Host error: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ screencomp ] Completes words from your screen")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(configPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
