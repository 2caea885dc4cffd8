package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	_ "costlens/cmd/docs"
	"costlens/config"
	"costlens/internal/command"
	"costlens/internal/log"
	"costlens/utils/path"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	rootPath = path.RootPath()
	envPath  string
	yamlPath string
	conf     *config.Configuration
	logger   *zap.Logger
)

func bindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&envPath, "env", "e", "", "Environment file, e.g. --env .env")
	flags.StringVarP(&yamlPath, "config", "c", "", "YAML config file, e.g. --config config.yaml")
}

// @title        costlens API
// @version      1.0
// @description  API 呼叫成本歸因、分析、異常告警與優化建議
// @host         localhost:3000
// @basePath     /
func main() {
	rootCmd := &cobra.Command{
		Use:   "app",
		Short: "costlens API server",
		Run: func(cmd *cobra.Command, args []string) {
			app, cleanup, err := wireApp(conf, logger)
			if err != nil {
				panic(err)
			}
			defer cleanup()

			logger.Info("start app ...")
			if err := app.Run(); err != nil {
				panic(err)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info("shutdown app ...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := app.Stop(ctx); err != nil {
				logger.Error("graceful shutdown failed", zap.Error(err))
			}
		},
	}
	bindFlags(rootCmd.PersistentFlags())

	cobra.OnInitialize(func() {
		if envPath != "" && yamlPath != "" {
			fmt.Println("同時指定 --env 與 --config，將以 --env 優先")
		}
		initConfig()
		var err error
		logger, err = log.NewLogger(conf)
		if err != nil {
			panic(fmt.Errorf("init logger failed: %w", err))
		}
	})

	command.Register(rootCmd, func() (*command.Command, func(), error) {
		return wireCommand(conf, logger)
	})

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	src := config.Source{BaseDir: rootPath, EnvFile: envPath, YAMLFile: yamlPath}
	if file, kind := src.File(); file != "" {
		fmt.Printf("load %s config: %s\n", kind, file)
	} else {
		fmt.Println("No configuration file specified, using environment variables only.")
	}

	loaded, v, err := config.Load(src)
	if err != nil {
		panic(err)
	}
	conf = loaded
	config.Watch(v, func(name string, next *config.Configuration, err error) {
		if err != nil {
			fmt.Println("reload config failed:", name, err)
			return
		}
		if !reflect.DeepEqual(conf, next) {
			fmt.Println("config file changed, restart to apply:", name)
		}
	})
}
