// Command migrate runs schema operations against the configured database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"vzsocial/internal/config"
	"vzsocial/internal/database"
	"vzsocial/internal/middleware"

	"gorm.io/gorm"
)

type command struct {
	name    string
	version int
}

var errUsage = errors.New("usage: migrate [-timeout 2m] [-force] <up|auto|status|down <version>>")

func parseCommand(args []string) (command, error) {
	if len(args) < 1 {
		return command{}, errUsage
	}
	cmd := command{name: strings.ToLower(strings.TrimSpace(args[0]))}
	switch cmd.name {
	case "up", "auto", "status":
		return cmd, nil
	case "down":
		if len(args) < 2 {
			return command{}, errors.New("down needs a migration version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			return command{}, fmt.Errorf("invalid version %q", args[1])
		}
		cmd.version = v
		return cmd, nil
	}
	return command{}, errUsage
}

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "abort after this long")
	force := flag.Bool("force", false, "allow rollbacks in production")
	flag.Parse()

	cmd, err := parseCommand(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fail("load config", err)
	}
	middleware.Logger = middleware.NewLogger(os.Stderr, cfg.Env)

	if cmd.name == "down" && cfg.IsProduction() && !*force {
		fail("rollback", errors.New("refusing to roll back in production without -force"))
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		fail("connect database", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := execute(ctx, cmd, cfg, db, os.Stdout); err != nil {
		fail(cmd.name, err)
	}
}

func execute(ctx context.Context, cmd command, cfg *config.Config, db *gorm.DB, out io.Writer) error {
	switch cmd.name {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
		middleware.Logger.Info("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return err
		}
		middleware.Logger.Info("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return err
		}
		return printStatus(out, status)
	case "down":
		if err := database.RollbackMigration(ctx, db, cmd.version); err != nil {
			return err
		}
		middleware.Logger.Info("migration rolled back", slog.Int("version", cmd.version))
	}
	return nil
}

func printStatus(out io.Writer, status *database.SchemaStatus) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "mode\t%s\n", status.Mode)
	fmt.Fprintf(tw, "env\t%s\n", status.Environment)
	fmt.Fprintf(tw, "run sql\t%t\n", status.WillRunSQL)
	fmt.Fprintf(tw, "run auto\t%t\n", status.WillRunAuto)
	fmt.Fprintf(tw, "applied\t%d\n", len(status.AppliedVersions))
	fmt.Fprintf(tw, "pending\t%d\n", len(status.PendingMigrations))
	for _, m := range status.PendingMigrations {
		fmt.Fprintf(tw, "  %s\tpending\n", m)
	}
	return tw.Flush()
}

func fail(step string, err error) {
	middleware.Logger.Error("migrate failed", slog.String("step", step), slog.String("error", err.Error()))
	os.Exit(1)
}
