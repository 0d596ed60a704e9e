package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type Platform struct {
	BaseURL     string
	RealtimeURL string
	AnonKey     string
}

type LocalStore struct {
	Path string
}

type Feed struct {
	PageSize int
}

type Config struct {
	HTTP       HTTPServer
	Platform   Platform
	LocalStore LocalStore
	Feed       Feed
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:       *newHTTP(),
		Platform:   *newPlatform(),
		LocalStore: *newLocalStore(),
		Feed:       *newFeed(),
	}

	log.Printf("%s app config : %+v\n", logtag, cfg)
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newPlatform() *Platform {
	return &Platform{
		BaseURL:     getenv("PLATFORM_URL", "http://localhost:54321"),
		RealtimeURL: getenv("PLATFORM_REALTIME_URL", "ws://localhost:54321/realtime/v1"),
		AnonKey:     getenv("PLATFORM_ANON_KEY", ""),
	}
}

func newLocalStore() *LocalStore {
	return &LocalStore{
		Path: getenv("LOCAL_STORE_PATH", ".crossroads/local_store.json"),
	}
}

func newFeed() *Feed {
	size, err := strconv.Atoi(getenv("FEED_PAGE_SIZE", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	return &Feed{PageSize: size}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}
