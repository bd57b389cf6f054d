package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// Environment variables read by Resolve.
const (
	EnvAPIURL       = "FINANZAS_API_URL"
	EnvAccessToken  = "FINANZAS_ACCESS_TOKEN"
	EnvRefreshToken = "FINANZAS_REFRESH_TOKEN"
	EnvSnapshotDB   = "FINANZAS_SNAPSHOT_DB"
	EnvS3Bucket     = "FINANZAS_S3_BUCKET"
	EnvTimeout      = "FINANZAS_TIMEOUT_SECONDS"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	envFiles []string
	lookup   func(string) (string, bool)
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
// Sem envFiles, lê ".env" do diretório atual quando existir.
func NewConfigRepository(envFiles ...string) repository.ConfigRepository {
	return &ConfigRepositoryImpl{envFiles: envFiles, lookup: os.LookupEnv}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := filepath.Ext(filePath)
	fileExtension = strings.ToLower(fileExtension)

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// Resolve builds the effective configuration. Later sources win:
// defaults, config file, .env, process environment, CLI flags.
func (r *ConfigRepositoryImpl) Resolve(args *types.CLIArgs) (*types.Config, error) {
	config := &types.Config{}
	if args != nil && args.ConfigFile != "" {
		loaded, err := r.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	dotenv, err := r.readEnvFiles()
	if err != nil {
		return nil, err
	}
	env := func(key string) (string, bool) {
		if v, ok := r.lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if v, ok := env(EnvAPIURL); ok {
		config.APIURL = v
	}
	if v, ok := env(EnvAccessToken); ok {
		config.AccessToken = v
	}
	if v, ok := env(EnvRefreshToken); ok {
		config.RefreshToken = v
	}
	if v, ok := env(EnvSnapshotDB); ok {
		config.SnapshotDB = v
	}
	if v, ok := env(EnvS3Bucket); ok {
		config.S3Bucket = v
	}
	if v, ok := env(EnvTimeout); ok {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		config.TimeoutSeconds = seconds
	}

	if args != nil {
		applyFlags(config, args)
	}
	applyDefaults(config)

	if strings.TrimSpace(config.APIURL) == "" {
		return nil, types.ErrMissingAPIURL
	}
	return config, nil
}

func (r *ConfigRepositoryImpl) readEnvFiles() (map[string]string, error) {
	if len(r.envFiles) == 0 {
		values, err := godotenv.Read()
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error reading .env: %w", err)
		}
		return values, nil
	}
	values, err := godotenv.Read(r.envFiles...)
	if err != nil {
		return nil, fmt.Errorf("error reading env files: %w", err)
	}
	return values, nil
}

func applyFlags(config *types.Config, args *types.CLIArgs) {
	if args.APIURL != "" {
		config.APIURL = args.APIURL
	}
	if args.MonthOffset != 0 {
		config.MonthOffset = args.MonthOffset
	}
	if args.MonthsPerPage != 0 {
		config.MonthsPerPage = args.MonthsPerPage
	}
	if args.Pages != 0 {
		config.Pages = args.Pages
	}
	if args.SnapshotDB != "" {
		config.SnapshotDB = args.SnapshotDB
	}
	if args.ReportName != "" {
		config.ReportName = args.ReportName
	}
	if len(args.ReportType) > 0 {
		config.ReportType = args.ReportType
	}
	if args.Dir != "" {
		config.Dir = args.Dir
	}
	if args.S3Bucket != "" {
		config.S3Bucket = args.S3Bucket
	}
	if args.S3Prefix != "" {
		config.S3Prefix = args.S3Prefix
	}
	if args.AWSProfile != "" {
		config.AWSProfile = args.AWSProfile
	}
}

func applyDefaults(config *types.Config) {
	if config.MonthOffset == 0 {
		config.MonthOffset = types.DefaultMonthOffset
	}
	if config.MonthsPerPage <= 0 {
		config.MonthsPerPage = types.DefaultMonthsPerPage
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = types.DefaultTimeoutSeconds
	}
}
