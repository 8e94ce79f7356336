package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ttpr0/go-tour/parser"
	"go.uber.org/multierr"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

type Config struct {
	Server struct {
		Addr        string   `yaml:"addr"`
		CorsOrigins []string `yaml:"cors-origins"`
	} `yaml:"server"`
	Log struct {
		Level     LogLevel `yaml:"level"`
		AddSource bool     `yaml:"add-source"`
	} `yaml:"log"`
	Source SourceOptions `yaml:"source"`
	Graph  struct {
		Refresh time.Duration `yaml:"refresh"`
		Vehicle VehicleType   `yaml:"vehicle"`
		Metric  MetricType    `yaml:"metric"`
	} `yaml:"graph"`
	Matrix struct {
		Workers      int           `yaml:"workers"`
		PairTimeout  time.Duration `yaml:"pair-timeout"`
		SearchRadius float64       `yaml:"search-radius"`
	} `yaml:"matrix"`
	Cache struct {
		TTL  time.Duration `yaml:"ttl"`
		Size int           `yaml:"size"`
	} `yaml:"cache"`
}

type SourceOptions struct {
	OSM string `yaml:"osm"`
}

func DefaultConfig() Config {
	var config Config
	config.Server.Addr = ":5002"
	config.Log.Level = LogLevel(slog.LevelInfo)
	config.Graph.Refresh = 24 * time.Hour
	config.Graph.Vehicle = CAR
	config.Graph.Metric = FASTEST
	config.Matrix.Workers = 8
	config.Matrix.PairTimeout = 2 * time.Second
	config.Matrix.SearchRadius = 500
	config.Cache.TTL = 10 * time.Minute
	config.Cache.Size = 1024
	return config
}

// ReadConfig reads the yaml config file, unset fields keep their defaults.
func ReadConfig(file string) (Config, error) {
	slog.Info("reading config file", "file", file)
	config := DefaultConfig()
	data, err := os.ReadFile(file)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (self Config) Validate() error {
	var errs error
	if self.Source.OSM == "" {
		errs = multierr.Append(errs, errors.New("source.osm is required"))
	}
	if self.Graph.Refresh < 0 {
		errs = multierr.Append(errs, errors.New("graph.refresh must not be negative"))
	}
	if self.Matrix.Workers <= 0 {
		errs = multierr.Append(errs, errors.New("matrix.workers must be positive"))
	}
	if self.Matrix.PairTimeout < 0 {
		errs = multierr.Append(errs, errors.New("matrix.pair-timeout must not be negative"))
	}
	if self.Matrix.SearchRadius <= 0 {
		errs = multierr.Append(errs, errors.New("matrix.search-radius must be positive"))
	}
	if self.Cache.TTL <= 0 {
		errs = multierr.Append(errs, errors.New("cache.ttl must be positive"))
	}
	return errs
}

//**********************************************************
// enums
//**********************************************************

type MetricType byte

const (
	FASTEST  MetricType = 0
	SHORTEST MetricType = 1
)

func (self MetricType) String() string {
	switch self {
	case FASTEST:
		return "fastest"
	case SHORTEST:
		return "shortest"
	default:
		return "unknown"
	}
}
func (self MetricType) Weighting() parser.IWeighting {
	if self == SHORTEST {
		return parser.ShortestWeighting{}
	}
	return parser.FastestWeighting{}
}
func (self MetricType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *MetricType) UnmarshalYAML(value *yaml.Node) error {
	typ, err := MetricTypeFromString(value.Value)
	if err != nil {
		return err
	}
	*self = typ
	return nil
}

func MetricTypeFromString(s string) (MetricType, error) {
	switch s {
	case "fastest":
		return FASTEST, nil
	case "shortest":
		return SHORTEST, nil
	default:
		return FASTEST, fmt.Errorf("unknown metric type %q", s)
	}
}

type VehicleType byte

const (
	CAR  VehicleType = 0
	FOOT VehicleType = 1
	BIKE VehicleType = 2
)

func (self VehicleType) String() string {
	switch self {
	case CAR:
		return "car"
	case FOOT:
		return "foot"
	case BIKE:
		return "bike"
	default:
		return "unknown"
	}
}
func (self VehicleType) Decoder() parser.IOSMDecoder {
	switch self {
	case FOOT:
		return &parser.WalkingDecoder{}
	case BIKE:
		return &parser.CyclingDecoder{}
	default:
		return &parser.DrivingDecoder{}
	}
}
func (self VehicleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *VehicleType) UnmarshalYAML(value *yaml.Node) error {
	typ, err := VehicleTypeFromString(value.Value)
	if err != nil {
		return err
	}
	*self = typ
	return nil
}

func VehicleTypeFromString(s string) (VehicleType, error) {
	switch s {
	case "car":
		return CAR, nil
	case "foot":
		return FOOT, nil
	case "bike":
		return BIKE, nil
	default:
		return CAR, fmt.Errorf("unknown vehicle type %q", s)
	}
}

type LogLevel slog.Level

func (self *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value.Value)); err != nil {
		return err
	}
	*self = LogLevel(level)
	return nil
}
