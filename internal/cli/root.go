package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rohmanhakim/redis-tracker/internal/build"
	"github.com/rohmanhakim/redis-tracker/internal/config"
	"github.com/rohmanhakim/redis-tracker/internal/fetcher"
	"github.com/rohmanhakim/redis-tracker/internal/kv"
	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/internal/pagecache"
	"github.com/rohmanhakim/redis-tracker/internal/record"
	"github.com/rohmanhakim/redis-tracker/pkg/fileutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	redisAddr     string
	redisPassword string
	redisDB       int
	cacheTTL      time.Duration
	fetchTimeout  time.Duration
	userAgent     string
	journalPath   string

	putKind string
	getKind string
)

// defaultFetchURL is what `fetch` hits when no URL argument is given.
const defaultFetchURL = "http://slowwly.robertomurray.co.uk"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "redis-tracker",
	Short:   "A call-counting record store and page cache backed by Redis.",
	Version: build.FullVersion(),
	Long: `redis-tracker stores scalar values under random keys in Redis and
keeps an invocation counter next to them, and fetches remote pages
through a short-lived Redis cache that counts how often each URL
actually went over the network.

Counters and records share one keyspace: record keys are random UUIDs,
counter keys are fixed names, so the two never collide.`,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Fetch a page through the cache and print it with its access count",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pageURL := defaultFetchURL
		if len(args) == 1 {
			pageURL = args[0]
		}

		cfg := InitConfig()
		store, sink, cleanup := openCollaborators(cfg)
		defer cleanup()

		pageFetcher := fetcher.NewPageFetcher(sink, cfg.FetchTimeout(), cfg.UserAgent())
		cache := pagecache.NewPageCache(store, &pageFetcher, sink, cfg.CacheTTL())

		ctx := context.Background()
		content, err := cache.GetPage(ctx, pageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(content)

		count, err := cache.AccessCount(ctx, pageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Access count for %s: %d\n", pageURL, count)
	},
}

var putCmd = &cobra.Command{
	Use:   "put <value>",
	Short: "Store a value under a fresh random key and print the key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value, err := parsePutValue(args[0], putKind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		cfg := InitConfig()
		store, sink, cleanup := openCollaborators(cfg)
		defer cleanup()

		records := record.NewRecordStore(store, sink)
		key, err := records.Put(context.Background(), value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(key)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Retrieve a stored value by key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		decoder, err := decoderFor(getKind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		cfg := InitConfig()
		store, sink, cleanup := openCollaborators(cfg)
		defer cleanup()

		records := record.NewRecordStore(store, sink)
		value, found, err := records.Get(context.Background(), args[0], decoder)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		if !found {
			fmt.Println("(absent)")
			return
		}
		if raw, ok := value.([]byte); ok {
			fmt.Printf("%s\n", raw)
			return
		}
		fmt.Printf("%v\n", value)
	},
}

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Print how many times put has run against the current keyspace",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := InitConfig()
		store, sink, cleanup := openCollaborators(cfg)
		defer cleanup()

		records := record.NewRecordStore(store, sink)
		count, err := records.PutCalls(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(count)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "address of the Redis server, host:port")
	rootCmd.PersistentFlags().StringVar(&redisPassword, "redis-password", "", "password for the Redis server")
	rootCmd.PersistentFlags().IntVar(&redisDB, "redis-db", 0, "Redis logical database index")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "cache-ttl", 0, "how long a cached page stays fresh")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "timeout for a single fetch request")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "metadata journal destination (file path, or \"-\" for stderr)")

	putCmd.Flags().StringVar(&putKind, "as", "text", "how to interpret the value: text, int or float")
	getCmd.Flags().StringVar(&getKind, "as", "raw", "how to decode the value: raw, text, int or float")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(callsCmd)
}

// InitConfig reads in config file and flag values if set.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and flag values if set, returning
// any errors. This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Start with default config and apply overrides using method chaining
	configBuilder := config.WithDefault()

	// Override with CLI flag values where provided
	if redisAddr != "" {
		configBuilder = configBuilder.WithRedisAddr(redisAddr)
	}

	if redisPassword != "" {
		configBuilder = configBuilder.WithRedisPassword(redisPassword)
	}

	if redisDB > 0 {
		configBuilder = configBuilder.WithRedisDB(redisDB)
	}

	if cacheTTL > 0 {
		configBuilder = configBuilder.WithCacheTTL(cacheTTL)
	}

	if fetchTimeout > 0 {
		configBuilder = configBuilder.WithFetchTimeout(fetchTimeout)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if journalPath != "" {
		configBuilder = configBuilder.WithJournalPath(journalPath)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openCollaborators builds the store and the metadata sink the commands
// share. The returned cleanup closes both; every command defers it.
func openCollaborators(cfg config.Config) (kv.Store, metadata.MetadataSink, func()) {
	store := kv.NewRedisStore(cfg.RedisAddr(), cfg.RedisPassword(), cfg.RedisDB())

	sink, journal, err := openSink(cfg.JournalPath())
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cleanup := func() {
		if journal != nil {
			journal.Close()
		}
		store.Close()
	}
	return store, sink, cleanup
}

// openSink maps the journal path to a metadata sink. An empty path
// disables the journal, "-" selects stderr, anything else appends to
// that file. The returned closer is nil unless a file was opened.
func openSink(path string) (metadata.MetadataSink, io.Closer, error) {
	switch path {
	case "":
		return &metadata.NoopSink{}, nil, nil
	case "-":
		return metadata.NewRecorder("redis-tracker", os.Stderr), nil, nil
	default:
		journal, err := fileutil.OpenAppend(path)
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewRecorder("redis-tracker", journal), journal, nil
	}
}

// parsePutValue converts the CLI argument into the scalar the record
// store expects for the requested kind.
func parsePutValue(raw string, kind string) (any, error) {
	switch kind {
	case "text":
		return raw, nil
	case "int":
		var n int64
		if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
			return nil, fmt.Errorf("value %q is not an integer", raw)
		}
		return n, nil
	case "float":
		var f float64
		if _, err := fmt.Sscanf(raw, "%g", &f); err != nil {
			return nil, fmt.Errorf("value %q is not a float", raw)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown value kind %q (want text, int or float)", kind)
	}
}

// decoderFor maps the --as flag to a record decoder. "raw" means no
// decoding at all.
func decoderFor(kind string) (record.Decoder, error) {
	switch kind {
	case "raw":
		return nil, nil
	case "text":
		return record.TextDecoder, nil
	case "int":
		return record.IntDecoder, nil
	case "float":
		return record.FloatDecoder, nil
	default:
		return nil, fmt.Errorf("unknown decode kind %q (want raw, text, int or float)", kind)
	}
}

func ResetFlags() {
	cfgFile = ""
	redisAddr = ""
	redisPassword = ""
	redisDB = 0
	cacheTTL = 0
	fetchTimeout = 0
	userAgent = ""
	journalPath = ""
	putKind = "text"
	getKind = "raw"
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetRedisAddrForTest(addr string) {
	redisAddr = addr
}

func SetRedisPasswordForTest(password string) {
	redisPassword = password
}

func SetRedisDBForTest(db int) {
	redisDB = db
}

func SetCacheTTLForTest(ttl time.Duration) {
	cacheTTL = ttl
}

func SetFetchTimeoutForTest(timeout time.Duration) {
	fetchTimeout = timeout
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetJournalPathForTest(path string) {
	journalPath = path
}
