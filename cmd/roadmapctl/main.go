package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"roadmap-backend/client"
	"roadmap-backend/internal/model"
)

var (
	apiFlag   string
	userFlag  string
	cacheFlag string
	rootCmd   = &cobra.Command{
		Use:   "roadmapctl",
		Short: "CLI client for the roadmap sync service",
	}
)

func main() {
	viper.SetEnvPrefix("ROADMAP")
	viper.AutomaticEnv()
	viper.SetDefault("api", "http://localhost:8080")
	viper.SetDefault("user", "default")
	viper.SetDefault("cache", defaultCachePath())

	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", viper.GetString("api"), "roadmap service base URL")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", viper.GetString("user"), "user ID")
	rootCmd.PersistentFlags().StringVarP(&cacheFlag, "cache", "c", viper.GetString("cache"), "local cache file")
	_ = viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	_ = viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".roadmapctl/cache.json"
	}
	return filepath.Join(home, ".roadmapctl", "cache.json")
}

func newClient() (*client.Client, error) {
	return client.New(apiFlag, client.WithUserID(userFlag))
}

func newSession(c *client.Client) *client.SyncSession {
	return client.NewSyncSession(c, client.SyncConfig{
		CachePath: cacheFlag,
		Fs:        afero.NewOsFs(),
	})
}

// loadRoadmapFile reads a roadmap JSON document from disk, used by
// commands that take local data from a file instead of the cache.
func loadRoadmapFile(path string) (model.Roadmap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data model.Roadmap
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}

func printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, string(raw))
	return nil
}
