// Command chowlink shortens links from the terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SergeiKhy/chowlink/internal/apiclient"
	"github.com/SergeiKhy/chowlink/internal/config"
	"github.com/SergeiKhy/chowlink/internal/models"
	"github.com/SergeiKhy/chowlink/internal/repository"
	"github.com/SergeiKhy/chowlink/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root, cleanup := newRootCmd(os.Stdout, os.Stderr)
	err := root.Execute()
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// rootFlags глобальные флаги, перекрывающие конфиг
type rootFlags struct {
	envFile    string
	apiURL     string
	tokenFile  string
	tokenStore string
	verbose    bool
}

// app сервисы, собранные в PersistentPreRunE
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	closeStore func()
	auth       *service.AuthClient
	session    *service.SessionBootstrapper
	submitter  *service.LinkSubmitter
	categories *service.CategoryFetcher
	notifier   service.Notifier
	out        io.Writer
}

// newRootCmd собирает дерево команд; cleanup закрывает хранилище токена и логгер
func newRootCmd(out, errOut io.Writer) (root *cobra.Command, cleanup func()) {
	flags := &rootFlags{}
	a := &app{out: out}

	root = &cobra.Command{
		Use:   "chowlink",
		Short: "Shorten links with a ChowLink backend",
		Long: `chowlink talks to a ChowLink backend.

The bearer token is kept in a token store (a file by default) and refreshed
automatically when the backend rejects it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags, errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "path to an env file")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "backend base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&flags.tokenFile, "token-file", "", "token file for the file store (overrides TOKEN_FILE)")
	root.PersistentFlags().StringVar(&flags.tokenStore, "token-store", "", "token store driver: file, keyring, redis, postgres")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newShortenCmd(a),
		newCategoriesCmd(a),
	)

	return root, a.close
}

func (a *app) init(cmd *cobra.Command, flags *rootFlags, errOut io.Writer) error {
	cfg, err := config.LoadFile(flags.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Для терминала по умолчанию файл, а не общий Redis веб-клиента
	switch {
	case flags.tokenStore != "":
		cfg.TokenStore.Driver = flags.tokenStore
	case os.Getenv("TOKEN_STORE_DRIVER") == "":
		cfg.TokenStore.Driver = config.TokenStoreFile
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(flags.apiURL, "/")
		if os.Getenv("DETAIL_BASE_URL") == "" {
			cfg.API.DetailBaseURL = cfg.API.BaseURL
		}
	}
	if flags.tokenFile != "" {
		cfg.TokenStore.File = flags.tokenFile
	}

	a.logger = zap.NewNop()
	if flags.verbose {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{"stderr"}
		if a.logger, err = zcfg.Build(); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	store, closeStore, err := repository.OpenTokenStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}

	api := apiclient.New(cfg.API, a.logger.Named("api"))

	a.cfg = cfg
	a.closeStore = closeStore
	a.auth = service.NewAuthClient(api, store, cfg.API.Password, a.logger)
	a.session = service.NewSessionBootstrapper(store, a.auth, a.logger)
	a.submitter = service.NewLinkSubmitter(api, store, a.auth, a.session, a.logger)
	a.categories = service.NewCategoryFetcher(api, a.logger)
	a.notifier = terminalNotifier(errOut)

	return nil
}

func (a *app) close() {
	if a.closeStore != nil {
		a.closeStore()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// terminalNotifier печатает уведомления в stderr
func terminalNotifier(w io.Writer) service.Notifier {
	return service.NotifierFunc(func(n models.Notification) {
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	})
}
