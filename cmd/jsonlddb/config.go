package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/jsonlddb"
	"github.com/hupe1980/jsonlddb/blobstore"
	miniostore "github.com/hupe1980/jsonlddb/blobstore/minio"
	s3store "github.com/hupe1980/jsonlddb/blobstore/s3"
	"github.com/hupe1980/jsonlddb/codec"
	"github.com/hupe1980/jsonlddb/snapshot"
)

// Config is the CLI configuration file.
//
//	store: s3://my-bucket/graphs
//	codec: msgpack
//	compression: zstd
//	log_level: debug
//	s3:
//	  region: eu-central-1
//	  dynamodb_table: jsonlddb-commits
type Config struct {
	// Store locates the blob store: a directory, file:///dir,
	// s3://bucket/prefix or minio://endpoint/bucket/prefix.
	Store       string      `yaml:"store"`
	Codec       string      `yaml:"codec"`
	Compression string      `yaml:"compression"`
	LogLevel    string      `yaml:"log_level"`
	S3          S3Config    `yaml:"s3"`
	MinIO       MinIOConfig `yaml:"minio"`
}

// S3Config configures the S3 store.
type S3Config struct {
	Region string `yaml:"region"`
	// DynamoDBTable enables conditional CURRENT commits through DynamoDB.
	DynamoDBTable string `yaml:"dynamodb_table"`
	PartSize      int64  `yaml:"part_size"`
	Concurrency   int    `yaml:"concurrency"`
}

// MinIOConfig configures the MinIO store.
type MinIOConfig struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Store:       "./data",
		Codec:       codec.Default.Name(),
		Compression: snapshot.CompressionZstd.String(),
		LogLevel:    "warn",
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the codec, compression and log level names.
func (c Config) Validate() error {
	if _, ok := codec.ByName(c.Codec); !ok {
		return fmt.Errorf("unknown codec %q (available: %s)", c.Codec, strings.Join(codec.Names(), ", "))
	}
	if _, err := snapshot.ParseCompression(c.Compression); err != nil {
		return err
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// DBOptions returns the database options the config selects.
func (c Config) DBOptions() ([]jsonlddb.Option, error) {
	cd, ok := codec.ByName(c.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", c.Codec)
	}
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	return []jsonlddb.Option{
		jsonlddb.WithCodec(cd),
		jsonlddb.WithLogLevel(level),
	}, nil
}

// SnapshotOptions returns the snapshot options the config selects.
func (c Config) SnapshotOptions() ([]snapshot.Option, error) {
	comp, err := snapshot.ParseCompression(c.Compression)
	if err != nil {
		return nil, err
	}
	return []snapshot.Option{snapshot.WithCompression(comp)}, nil
}

// StoreLocation is a parsed Config.Store value.
type StoreLocation struct {
	Scheme   string
	Endpoint string
	Bucket   string
	Prefix   string
	Path     string
}

// ParseStoreLocation parses a store location.
func ParseStoreLocation(s string) (StoreLocation, error) {
	if s == "" {
		return StoreLocation{}, errors.New("empty store location")
	}
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return StoreLocation{Scheme: "file", Path: s}, nil
	}
	switch scheme {
	case "file":
		if rest == "" {
			return StoreLocation{}, fmt.Errorf("store %q: missing path", s)
		}
		return StoreLocation{Scheme: scheme, Path: rest}, nil
	case "s3":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return StoreLocation{}, fmt.Errorf("store %q: missing bucket", s)
		}
		return StoreLocation{Scheme: scheme, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	case "minio":
		endpoint, path, _ := strings.Cut(rest, "/")
		bucket, prefix, _ := strings.Cut(path, "/")
		if endpoint == "" || bucket == "" {
			return StoreLocation{}, fmt.Errorf("store %q: expected minio://endpoint/bucket/prefix", s)
		}
		return StoreLocation{Scheme: scheme, Endpoint: endpoint, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	default:
		return StoreLocation{}, fmt.Errorf("store %q: unsupported scheme %q", s, scheme)
	}
}

// OpenStore connects to the blob store the config names.
func (c Config) OpenStore(ctx context.Context) (blobstore.BlobStore, error) {
	loc, err := ParseStoreLocation(c.Store)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case "s3":
		return c.openS3(ctx, loc)
	case "minio":
		return c.openMinIO(loc)
	default:
		return blobstore.NewLocalStore(loc.Path), nil
	}
}

func (c Config) openS3(ctx context.Context, loc StoreLocation) (blobstore.BlobStore, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if c.S3.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(c.S3.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	store := s3store.NewStore(awss3.NewFromConfig(awsCfg), loc.Bucket, loc.Prefix, func(u *s3store.UploadConfig) {
		if c.S3.PartSize > 0 {
			u.PartSize = c.S3.PartSize
			u.MultipartThreshold = c.S3.PartSize
		}
		if c.S3.Concurrency > 0 {
			u.Concurrency = c.S3.Concurrency
		}
	})
	if c.S3.DynamoDBTable == "" {
		return store, nil
	}

	baseURI := "s3://" + loc.Bucket
	if loc.Prefix != "" {
		baseURI += "/" + loc.Prefix
	}
	return s3store.NewCommitStore(store, dynamodb.NewFromConfig(awsCfg), c.S3.DynamoDBTable, baseURI), nil
}

func (c Config) openMinIO(loc StoreLocation) (blobstore.BlobStore, error) {
	client, err := minio.New(loc.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.MinIO.AccessKey, c.MinIO.SecretKey, ""),
		Secure: c.MinIO.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return miniostore.NewStore(client, loc.Bucket, loc.Prefix), nil
}
