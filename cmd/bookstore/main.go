package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"bookstore/internal/config"
	"bookstore/internal/http/handlers"
	applog "bookstore/internal/log"
	"bookstore/internal/repos"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:           "bookstore",
	Short:         "Bookstore catalog and ebook service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  serve,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the starter catalog and the admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := repos.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
		n, err := repos.SeedCatalog(db)
		if err != nil {
			return err
		}
		cmd.Printf("seeded %d books\n", n)
		return nil
	},
}

func init() {
	config.Defaults(v)
	f := rootCmd.PersistentFlags()
	f.String("port", "4001", "port to listen on")
	f.String("db-dsn", "bookstore.db", "sqlite database file")
	f.String("upload-dir", "./uploads", "root directory for uploaded covers and documents")
	f.String("log-file", "./bookstore.log", "rotating log file (empty for stdout only)")
	f.String("log-level", "info", "log level")
	_ = v.BindPFlag("port", f.Lookup("port"))
	_ = v.BindPFlag("db_dsn", f.Lookup("db-dsn"))
	_ = v.BindPFlag("upload_dir", f.Lookup("upload-dir"))
	_ = v.BindPFlag("log_file", f.Lookup("log-file"))
	_ = v.BindPFlag("log_level", f.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, seedCmd)
}

func load() (config.Config, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return cfg, err
	}
	applog.Setup(applog.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	return cfg, nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := repos.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	deps := handlers.NewDeps(db, cfg)
	app := handlers.NewApp(cfg, deps, handlers.AppOptions{AccessLog: true})

	applog.L().Info("server.start", zap.String("addr", ":"+cfg.Port), zap.String("uploads", cfg.UploadDir))
	return app.Listen(":" + cfg.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		applog.L().Error("bookstore.exit", zap.Error(err))
		applog.Sync()
		os.Exit(1)
	}
}
