package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", true)
	Conf.SetDefault("appName", "Kisan Portal")
	Conf.SetDefault("secretKey", "w#b1x^=f0y(5mshz+2&2-kp7!u$8)o3m4dq9_ncr!vj6a(tge5")
	Conf.SetDefault("defaultFromEmail", "noreply@localhost")
	Conf.SetDefault("contactEmail", "support@localhost")
	Conf.SetDefault("jwtExpirationDelta", 30*time.Minute)
	Conf.SetDefault("jwtRefreshExpirationDelta", 30*24*time.Hour)
	Conf.SetDefault("serverAddress", ":8080")

	// localization
	Conf.SetDefault("defaultLanguage", "en")

	// local stores
	Conf.SetDefault("kvDBPath", "kisan_kv.db")
	Conf.SetDefault("cacheDBPath", "kisan_cache.db")
	Conf.SetDefault("accountsDBPath", "kisan_accounts.db")

	// offline cache
	Conf.SetDefault("cacheGeneration", "kisan-portal-cache-v1")
	Conf.SetDefault("apiPathMarker", "/api/")
	Conf.SetDefault("portalOrigin", "http://localhost:8080")
	Conf.SetDefault("offlineManifest", []string{
		"/",
		"/login",
		"/signup",
		"/plot-registration",
		"/admin-dashboard",
		"/teacher-dashboard",
		"/student-dashboard",
		"/index.html",
	})

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case strings.ToUpper("TEST"):
		Conf.SetDefault("testMode", true)
	}
	Conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}
