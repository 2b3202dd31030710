package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/educontrol/educontrol-api/internal/models"
	"github.com/educontrol/educontrol-api/internal/repository"
	"github.com/educontrol/educontrol-api/internal/service"
	"github.com/educontrol/educontrol-api/pkg/config"
	"github.com/educontrol/educontrol-api/pkg/database"
	"github.com/educontrol/educontrol-api/pkg/logger"
	"github.com/educontrol/educontrol-api/pkg/storage"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	caps   models.SchemaCapabilities
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "educontrolctl",
		Short:         "Administrative tasks for the EduControl database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
	}
	root.AddCommand(newUserCmd(a), newSchemaCmd(a), newExportCmd(a))
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a.cfg = cfg
	a.logger = logr
	a.db = db
	a.caps = service.NewSchemaService(repository.NewSchemaRepository(db), logr).LoadCapabilities(ctx)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newUserCmd(a *app) *cobra.Command {
	userCmd := &cobra.Command{Use: "user", Short: "Manage staff accounts"}

	var username, password, role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account with a bcrypt password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			username = strings.TrimSpace(username)
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}
			normalized := models.NormalizeRole(role)
			switch normalized {
			case models.RolePrefect, models.RoleOrientation, models.RoleAdmin, models.RoleStudent:
			default:
				return fmt.Errorf("unknown role %q", role)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			id, err := repository.NewUserRepository(a.db, a.caps).Create(cmd.Context(), username, string(hash), normalized)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with id %d\n", username, normalized, id)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "login name stored in usuarios.nombre")
	create.Flags().StringVar(&password, "password", "", "plain password to hash")
	create.Flags().StringVar(&role, "role", string(models.RolePrefect), "prefecto, orientacion, admin or alumno")

	userCmd.AddCommand(create)
	return userCmd
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the detected schema capabilities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(a.caps); err != nil {
				return err
			}
			return a.caps.Validate()
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		dir    string
		filter models.StudentFilter
		prune  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the orientation board to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exportFormat, ok := models.ParseExportFormat(format)
			if !ok {
				return fmt.Errorf("unsupported format %q", format)
			}
			out, err := storage.NewDirectory(dir)
			if err != nil {
				return err
			}
			if prune > 0 {
				removed, err := out.PruneOlderThan(prune, time.Now())
				if err != nil {
					return err
				}
				a.logger.Info("pruned old exports", zap.Strings("files", removed))
			}

			students := repository.NewStudentRepository(a.db, a.caps)
			orientation := service.NewOrientationService(students, a.caps, nil, nil, a.logger)
			file, err := orientation.Export(cmd.Context(), filter, exportFormat)
			if err != nil {
				return err
			}
			path, err := out.Save(file.Filename, file.Body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(models.ExportCSV), "csv, pdf or xlsx")
	cmd.Flags().StringVar(&dir, "dir", "./exports", "output directory")
	cmd.Flags().StringVar(&filter.Grade, "grado", "", "only this grade")
	cmd.Flags().StringVar(&filter.GroupLabel, "grupo", "", "only this group label")
	cmd.Flags().StringVar(&filter.Search, "q", "", "name or matricula search")
	cmd.Flags().DurationVar(&prune, "prune", 0, "remove exports older than this before writing")
	return cmd
}
