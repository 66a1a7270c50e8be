package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/aws-finops-trends/internal/domain/repository"
	"github.com/diillson/aws-finops-trends/internal/shared/types"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixa todas as variáveis de ambiente lidas pela aplicação.
const EnvPrefix = "FINOPS_"

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	lookup func(string) (string, bool)
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{lookup: os.LookupEnv}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileData, err := readRegularFile(filePath)
	if err != nil {
		return nil, err
	}

	var config types.Config
	if err := Decode(filepath.Ext(filePath), fileData, &config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", filePath, err)
	}
	return &config, nil
}

// LoadEnvironment carrega o arquivo .env (se existir) e lê as variáveis FINOPS_*.
// Variáveis já definidas no ambiente não são sobrescritas pelo arquivo.
func (r *ConfigRepositoryImpl) LoadEnvironment(envFile string) (*types.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file %s: %w", envFile, err)
		}
	}

	var config types.Config
	var problems []string

	if v, ok := r.env("PROFILES"); ok {
		config.Profiles = splitList(v)
	}
	if v, ok := r.env("REGIONS"); ok {
		config.Regions = splitList(v)
	}
	if v, ok := r.env("REPORT_TYPE"); ok {
		config.ReportType = splitList(v)
	}
	if v, ok := r.env("TAG"); ok {
		config.Tag = splitList(v)
	}
	config.ReportName, _ = r.env("REPORT_NAME")
	config.Dir, _ = r.env("DIR")
	config.Granularity, _ = r.env("GRANULARITY")
	config.Mode, _ = r.env("MODE")
	config.GroupBy, _ = r.env("GROUP_BY")
	config.History, _ = r.env("HISTORY")

	if v, ok := r.env("TOP"); ok {
		top, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%sTOP must be a number, got '%s'", EnvPrefix, v))
		} else {
			config.Top = &top
		}
	}
	if v, ok := r.env("MONTHS"); ok {
		months, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%sMONTHS must be a number, got '%s'", EnvPrefix, v))
		}
		config.Months = months
	}
	if v, ok := r.env("DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%sDAYS must be a number, got '%s'", EnvPrefix, v))
		}
		config.Days = days
	}
	if v, ok := r.env("COMBINE"); ok {
		config.Combine, _ = strconv.ParseBool(v)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return &config, nil
}

func (r *ConfigRepositoryImpl) env(name string) (string, bool) {
	v, ok := r.lookup(EnvPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Decode decodifica dados TOML, YAML ou JSON de acordo com a extensão.
func Decode(ext string, data []byte, out interface{}) error {
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, ext)
	}
	return nil
}

func readRegularFile(filePath string) ([]byte, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return fileData, nil
}

func splitList(v string) []string {
	return lo.Compact(lo.Map(strings.Split(v, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
