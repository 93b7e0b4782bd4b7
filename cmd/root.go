package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/resume"
	"github.com/spigell/resume-matcher/internal/server"
)

const (
	app       = "resume-matcher"
	envPrefix = "RESUME_MATCHER"
)

type Config struct {
	Matcher         *MatcherConfig         `mapstructure:"matcher"`
	Analysis        *AnalysisConfig        `mapstructure:"analysis"`
	Recommendations *RecommendationsConfig `mapstructure:"recommendations"`
	AI              *AIConfig              `mapstructure:"ai"`
	Storage         *StorageConfig         `mapstructure:"storage"`
	Fetch           *FetchConfig           `mapstructure:"fetch"`
	Server          server.Config          `mapstructure:"server"`
}

type MatcherConfig struct {
	Skills []string `mapstructure:"skills"`
}

type AnalysisConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type RecommendationsConfig struct {
	Static        bool `mapstructure:"static"`
	MissingSkills bool `mapstructure:"missing-skills"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
	Tone         string `mapstructure:"tone"`
	Instructions string `mapstructure:"instructions"`
}

type StorageConfig struct {
	S3 *S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access-key"`
	SecretKey     string `mapstructure:"secret-key"`
	SecretKeyFile string `mapstructure:"secret-key-file"`
	MaxBytes      int64  `mapstructure:"max-bytes"`
}

type FetchConfig struct {
	UserAgent string        `mapstructure:"user-agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores how well a resume matches a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("matcher.skills", []string{})
	viper.SetDefault("analysis.delay", time.Duration(0))
	viper.SetDefault("recommendations.static", true)
	viper.SetDefault("recommendations.missing-skills", false)
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", gemini.Provider)
	viper.SetDefault("ai.gemini.api-key", "")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", gemini.DefaultModel)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("ai.gemini.tone", "")
	viper.SetDefault("ai.gemini.instructions", "")
	viper.SetDefault("storage.s3.endpoint", "")
	viper.SetDefault("storage.s3.region", "auto")
	viper.SetDefault("storage.s3.access-key", "")
	viper.SetDefault("storage.s3.secret-key", "")
	viper.SetDefault("storage.s3.secret-key-file", "")
	viper.SetDefault("storage.s3.max-bytes", resume.DefaultMaxObjectBytes)
	viper.SetDefault("fetch.user-agent", app)
	viper.SetDefault("fetch.timeout", 10*time.Second)
	viper.SetDefault("server.addr", server.DefaultAddr)
	viper.SetDefault("server.max-upload-bytes", server.DefaultMaxUploadBytes)
	viper.SetDefault("server.cors-origins", []string{"*"})
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicit config must exist and parse.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
