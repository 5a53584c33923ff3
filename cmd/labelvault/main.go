package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/labelvault-backend/internal/config"
	"github.com/yungbote/labelvault-backend/internal/db"
	"github.com/yungbote/labelvault-backend/internal/idcrypt"
	"github.com/yungbote/labelvault-backend/internal/logger"
	"github.com/yungbote/labelvault-backend/internal/repos"
	"github.com/yungbote/labelvault-backend/internal/services"
	"github.com/yungbote/labelvault-backend/internal/spl/parser"
)

// appEnv holds everything a subcommand needs, wired once before command
// execution.
type appEnv struct {
	Log      *logger.Logger
	Settings config.Settings
	Postgres *db.PostgresService
	Repos    *repos.Bundle
	RawDocs  services.RawDocumentService
	Importer services.ImportService
	Exporter services.ExportService
}

var env *appEnv

func initializeAppEnv(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}

	settings, err := config.Load(cmd.String("config"), log)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		return ctx, fmt.Errorf("unable to connect to postgres: %w", err)
	}
	thePG := postgresService.DB()

	codec, err := idcrypt.FromEnv(log)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare external id codec: %w", err)
	}

	bundle := repos.NewBundle(thePG, log)
	rawDocs := services.NewRawDocumentService(thePG, log, bundle.RawDocument, codec)
	importer := services.NewImportService(
		thePG,
		log,
		bundle,
		parser.NewDefaultRegistry(log),
		rawDocs,
		services.NewLinkResolver(log),
		settings,
	)
	exporter, err := services.NewExportService(thePG, log, bundle, settings.Export)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare export service: %w", err)
	}

	env = &appEnv{
		Log:      log,
		Settings: settings,
		Postgres: postgresService,
		Repos:    bundle,
		RawDocs:  rawDocs,
		Importer: importer,
		Exporter: exporter,
	}
	return ctx, nil
}

func destroyAppEnv(_ context.Context, _ *cli.Command) error {
	if env != nil && env.Log != nil {
		env.Log.Sync()
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "labelvault",
		Usage:           "import and export SPL structured product labeling documents",
		HideHelpCommand: true,
		Before:          initializeAppEnv,
		After:           destroyAppEnv,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "migrate",
				Usage:     "Creates or updates the database schema",
				Action:    runMigrate,
				ArgsUsage: " ",
			},
			{
				Name:   "import",
				Usage:  "Imports SPL XML file(s) into the entity store",
				Action: runImport,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: 4, Usage: "maximum `N` files imported concurrently"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "suppress per-file progress output"},
				},
				ArgsUsage: "FILE [FILE...]",
			},
			{
				Name:   "export",
				Usage:  "Exports a document as SPL XML by its instance GUID",
				Action: runExport,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "minify", Aliases: []string{"m"}, Usage: "strip insignificant whitespace from the output"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write output to `FILE` instead of STDOUT"},
				},
				ArgsUsage: "DOCUMENT_GUID",
			},
			{
				Name:   "list",
				Usage:  "Lists stored raw documents",
				Action: runList,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "offset", Value: 0, Usage: "first row to return"},
					&cli.IntFlag{Name: "limit", Value: 50, Usage: "maximum rows to return"},
				},
				ArgsUsage: " ",
			},
			{
				Name:      "archive",
				Usage:     "Archives a raw document by its external id",
				Action:    runArchive,
				ArgsUsage: "EXTERNAL_ID",
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func runMigrate(_ context.Context, _ *cli.Command) error {
	if err := env.Postgres.AutoMigrateAll(); err != nil {
		return fmt.Errorf("unable to migrate schema: %w", err)
	}
	env.Log.Info("Schema migration complete")
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("no input files given")
	}

	var progress parser.ProgressFunc
	if !cmd.Bool("quiet") {
		progress = func(milestone string) {
			fmt.Println(milestone)
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(int(cmd.Int("jobs")))
	for _, file := range files {
		group.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("unable to read '%s': %w", file, err)
			}
			result := env.Importer.ImportFile(groupCtx, string(data), filepath.Base(file), progress)
			if !result.Success {
				return fmt.Errorf("import of '%s' failed: %s", file, result.Message)
			}
			env.Log.Info("Imported file", "file", file, "message", result.Message)
			return nil
		})
	}
	return group.Wait()
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("exactly one document GUID expected")
	}
	instanceGUID, err := uuid.Parse(cmd.Args().Get(0))
	if err != nil {
		return fmt.Errorf("malformed document GUID '%s': %w", cmd.Args().Get(0), err)
	}

	xmlText, err := env.Exporter.ExportDocument(ctx, instanceGUID, cmd.Bool("minify"))
	if err != nil {
		return err
	}

	if fname := cmd.String("out"); fname != "" {
		if err := os.WriteFile(fname, []byte(xmlText), 0o644); err != nil {
			return fmt.Errorf("unable to write '%s': %w", fname, err)
		}
		env.Log.Info("Exported document", "document_guid", instanceGUID, "file", fname)
		return nil
	}
	fmt.Println(xmlText)
	return nil
}

func runList(ctx context.Context, cmd *cli.Command) error {
	rows, total, err := env.RawDocs.ListPage(ctx, nil, int(cmd.Int("offset")), int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Printf("%s  guid=%s  hash=%s  archived=%v\n",
			row.CreatedAt.Format("2006-01-02 15:04:05"), row.DocumentGUID, row.ContentHash[:12], row.Archived)
	}
	fmt.Printf("%d of %d row(s)\n", len(rows), total)
	return nil
}

func runArchive(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("exactly one external id expected")
	}
	if err := env.RawDocs.ArchiveByExternalID(ctx, nil, cmd.Args().Get(0)); err != nil {
		return err
	}
	env.Log.Info("Archived raw document", "external_id", cmd.Args().Get(0))
	return nil
}
