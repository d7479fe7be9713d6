package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/client"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/commenttree"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/config"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: commentctl -post <id> [flags] <command> [args]

Commands:
  list                  print the first page
  more                  load the next page and print the tree
  add <text>            add a root comment
  reply <id> <text>     reply to a comment
  like <id>             toggle your like on a comment
  edit <id> <text>      replace the content of your comment
  delete <id>           delete your comment

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	postID := flag.String("post", "", "post whose comments to work on")
	verbose := flag.Bool("v", false, "log every request to stderr")
	flag.Usage = usage
	flag.Parse()

	if *postID == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	api := client.NewCommentClient(cfg.Client.BaseURL, cfg.Client.UserID, cfg.Client.Timeout, logger, nil)
	store := commenttree.New(commenttree.Config{
		PostID: *postID,
		Actor: domain.UserSummary{
			ID:       cfg.Client.UserID,
			Username: cfg.Client.Username,
		},
		MaxDepth:           cfg.Comments.MaxDepth,
		MaxContentLength:   cfg.Comments.MaxContentLength,
		PageSize:           cfg.Comments.PageSize,
		DeletedPlaceholder: cfg.Comments.DeletedPlaceholder,
	}, api, nil, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, store, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "commentctl: %v\n", err)
		os.Exit(1)
	}
}

// initLogger keeps the CLI quiet unless verbose is set
func initLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.DisableStacktrace = true

	return config.Build()
}
