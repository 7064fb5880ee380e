package cmd

import (
	"context"
	"crowdfund/domain"
	"crowdfund/domain/config"
	"crowdfund/usecase"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keeps a wallet session open and reloads projects periodically",
	Long: `Keeps a wallet session open, follows account and network changes and
reloads the projects periodically. Editing the config file changes the wallet
account or its endpoints on the fly. Stop it with SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("watch called.")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := defaultDependencyInject(ctx); err != nil {
			return err
		}
		defer teardown()

		restore(ctx)

		if address := config.GetMetricsAddress(); address != "" {
			go serveMetrics(address)
		}

		if cfgFile != "" {
			watchConfig(ctx)
		}

		unsubscribe := appStore.Projects.Subscribe(func(projects []domain.Project) {
			if projects != nil {
				output.Projects(projects)
			}
		})
		defer unsubscribe()

		sessionInteractor.OnReload(reload)
		if _, err := sessionInteractor.CheckConnection(ctx); err != nil {
			log.Printf("🔴 Wallet session is not available - %v\n", err.Error())
		}
		reload(ctx)

		quit := make(chan bool)
		reloadTicker := schedule(func() { reload(ctx) }, config.GetReloadInterval(), quit)

		signal.Ignore()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		s := <-stop
		log.Printf("Got signal '%v', stopping", s)

		reloadTicker.Stop()
		close(quit)
		return nil
	},
}

func schedule(task func(), interval time.Duration, done chan bool) *time.Ticker {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {

			case <-ticker.C:
				ticker.Stop()
				task()
				ticker.Reset(interval)

			case <-done:
				return
			}
		}
	}()
	return ticker
}

func reload(ctx context.Context) {
	if err := syncInteractor.LoadProjects(ctx); err != nil {
		fmt.Printf("❌ Projects are not reloaded due to error: %v\n", err.Error())
	}
}

// restore shows the last persisted state until the first reload replaces it.
func restore(ctx context.Context) {
	if snapshotInteractor == nil {
		return
	}

	snapshots, err := snapshotInteractor.Restore(ctx)
	if err != nil {
		log.Printf("🟡 No snapshot is restored - %v\n", err.Error())
		return
	}
	if err := usecase.RestoreStore(snapshots, appStore); err != nil {
		log.Printf("🟡 Snapshot restore is incomplete - %v\n", err.Error())
		return
	}
	log.Printf("🔵 Restored %v snapshot slots\n", len(snapshots))
}

func serveMetrics(address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("🔵 Serving metrics on %v/metrics\n", address)
	if err := http.ListenAndServe(address, mux); err != nil {
		log.Printf("🔴 Metrics server stopped - %v\n", err.Error())
	}
}

// watchConfig applies wallet changes from the config file. The provider then
// emits the account and network events the session reacts to.
func watchConfig(ctx context.Context) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("🔵 Config file changed [%v]\n", e.Name)

		if err := config.Reload(); err != nil {
			log.Printf("🔴 Config change is ignored - %v\n", err.Error())
			return
		}

		if keyedProvider == nil {
			if config.HasWallet() {
				log.Printf("⚠️ A wallet was configured, restart to attach it.\n")
			}
			return
		}

		if err := keyedProvider.SetEndpoints(ctx, config.GetEndpoints()); err != nil {
			log.Printf("🔴 Failed to apply endpoints - %v\n", err.Error())
		}
		keyedProvider.SetKey(config.GetWalletPrivateKey(), config.IsPreauthorized())
	})
	viper.WatchConfig()
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
