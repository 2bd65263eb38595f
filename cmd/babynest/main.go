package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/babynest/babynest/internal/profile"
	"github.com/babynest/babynest/plugin/ai"
	"github.com/babynest/babynest/plugin/ai/agent"
	"github.com/babynest/babynest/plugin/ai/contextcache"
	"github.com/babynest/babynest/plugin/ai/vector"
	"github.com/babynest/babynest/server"
	"github.com/babynest/babynest/store"
	"github.com/babynest/babynest/store/db"
)

const greetingBanner = `BabyNest - personal pregnancy tracker`

var rootCmd = &cobra.Command{
	Use:   "babynest",
	Short: "A personal pregnancy tracking service with an AI assistant",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(context.Background())
		instanceProfile := &profile.Profile{
			Mode:                viper.GetString("mode"),
			Addr:                viper.GetString("addr"),
			Port:                viper.GetInt("port"),
			Data:                viper.GetString("data"),
			Driver:              viper.GetString("driver"),
			DSN:                 viper.GetString("dsn"),
			Version:             version,
			AIEnabled:           viper.GetBool("ai-enabled"),
			AIAPIKey:            viper.GetString("ai-api-key"),
			AIBaseURL:           viper.GetString("ai-base-url"),
			AIChatModel:         viper.GetString("ai-chat-model"),
			AIEmbedModel:        viper.GetString("ai-embed-model"),
			GuidelinesPath:      viper.GetString("guidelines-path"),
			CacheDir:            viper.GetString("cache-dir"),
			CacheMaxFileMB:      viper.GetInt("cache-max-file-mb"),
			CacheMaxEntries:     viper.GetInt("cache-max-entries"),
			CacheMaxAgeDays:     viper.GetInt("cache-max-age-days"),
			CacheMaxMemoryUsers: viper.GetInt("cache-max-memory-users"),
		}
		if err := instanceProfile.Validate(); err != nil {
			cancel()
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			cancel()
			slog.Error("failed to create db driver", "error", err)
			os.Exit(1)
		}
		storeInstance := store.New(dbDriver, instanceProfile)

		cache, err := contextcache.New(storeInstance, instanceProfile.CacheDir, contextcache.Policy{
			MaxFileBytes:       int64(instanceProfile.CacheMaxFileMB) << 20,
			MaxTrackingEntries: instanceProfile.CacheMaxEntries,
			MaxFileAge:         time.Duration(instanceProfile.CacheMaxAgeDays) * 24 * time.Hour,
			MaxMemoryUsers:     instanceProfile.CacheMaxMemoryUsers,
		})
		if err != nil {
			cancel()
			slog.Error("failed to create context cache", "error", err)
			os.Exit(1)
		}

		var (
			retriever   agent.Retriever
			llm         agent.LLM
			vectorStore *vector.Store
		)
		if instanceProfile.IsAIEnabled() {
			provider := ai.NewProvider(ai.NewConfigFromProfile(instanceProfile))
			vectorStore = vector.NewStore(storeInstance, provider, instanceProfile.GuidelinesPath)
			if synced, err := vectorStore.SyncGuidelines(ctx); err != nil {
				slog.Warn("failed to sync guidelines", "error", err)
			} else if synced {
				slog.Info("guidelines synced", "path", instanceProfile.GuidelinesPath)
			}
			retriever = vectorStore
			llm = provider
		}
		agentInstance := agent.New(cache, storeInstance, retriever, llm)

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, agentInstance, vectorStore)
		if err != nil {
			cancel()
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			slog.Info("shutting down")
			s.Shutdown(ctx)
			cancel()
		}()

		printGreeting(instanceProfile)
		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			cancel()
		}

		<-ctx.Done()
	},
}

var version = "0.1.0"

func printGreeting(p *profile.Profile) {
	fmt.Println(greetingBanner)
	fmt.Printf("version %s, mode %s, driver %s\n", p.Version, p.Mode, p.Driver)
	fmt.Printf("listening on %s:%d\n", p.Addr, p.Port)
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("data", "")
	viper.SetDefault("driver", "sqlite")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("babynest")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
