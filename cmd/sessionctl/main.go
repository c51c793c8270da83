package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/mindwell/sessionctl/internal/apiclient"
	"github.com/mindwell/sessionctl/internal/ctxstore"
	"github.com/mindwell/sessionctl/internal/env"
	"github.com/mindwell/sessionctl/internal/lifecycle"
	"github.com/mindwell/sessionctl/internal/model"
	"github.com/mindwell/sessionctl/internal/version"
)

var _cfgFile = flag.String("cfg", "", "path to config file")

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	api struct {
		baseURL string
		token   string
		timeout time.Duration
	}
	actor struct {
		id             string
		alias          string
		role           string
		sessionTimeout int
	}
	autoConfirm bool
}

type application struct {
	config     config
	logger     *slog.Logger
	api        *apiclient.Client
	dispatcher *lifecycle.Dispatcher
}

func run(logger *slog.Logger) error {
	var cfg config

	showVersion := flag.Bool("version", false, "display version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.api.baseURL = env.GetString("THERAPY_API_URL", "http://localhost:8080/api/v1")
	cfg.api.token = env.GetString("THERAPY_API_TOKEN", "")
	cfg.api.timeout = env.GetDuration("THERAPY_API_TIMEOUT", 10*time.Second)
	cfg.actor.id = env.GetString("THERAPY_USER_ID", "")
	cfg.actor.alias = env.GetString("THERAPY_USER_ALIAS", "")
	cfg.actor.role = env.GetString("THERAPY_USER_ROLE", string(model.RolePatient))
	cfg.actor.sessionTimeout = env.GetInt("THERAPY_SESSION_TIMEOUT", 0)
	cfg.autoConfirm = env.GetBool("THERAPY_AUTO_CONFIRM", false)

	if cfg.actor.id == "" {
		return errors.New("THERAPY_USER_ID is required")
	}

	api, err := apiclient.New(logger, apiclient.Config{
		BaseURL:   cfg.api.baseURL,
		AuthToken: cfg.api.token,
		Timeout:   cfg.api.timeout,
	})
	if err != nil {
		return err
	}

	app := &application{
		config: cfg,
		logger: logger,
		api:    api,
	}

	var confirm lifecycle.ConfirmFunc
	if !cfg.autoConfirm {
		confirm = promptConfirm
	}
	app.dispatcher = lifecycle.NewDispatcher(logger, api, confirm)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The authenticated user rides the context, the same way trace IDs do.
	ctx = ctxstore.With(ctx, _actorKey, model.User{
		ID:             cfg.actor.id,
		Alias:          cfg.actor.alias,
		Role:           model.Role(cfg.actor.role),
		SessionTimeout: cfg.actor.sessionTimeout,
	})

	args := flag.Args()
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	return app.dispatch(ctx, args[0], args[1:])
}

func promptConfirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: sessionctl [-cfg FILE] COMMAND [ARGS]

commands:
  list [STATUS] [TYPE]   list sessions, optionally filtered
  show ID                show one session
  accept ID              accept a pending session
  reject ID              reject a pending session
  start ID               start a scheduled session
  complete ID            complete a live session
  join ID                enter the session room
  book PSYCHOLOGIST START END TYPE PRICE [MAX]
                         book a session (times in RFC 3339)
  watch ID               follow the session countdown`)
}
