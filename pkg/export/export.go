// Package export writes analysis results to files, object storage, a
// PostgreSQL table or a nanomsg PUB socket.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

// Sink kinds
const (
	KindStdout   = "stdout"
	KindFile     = "file"
	KindS3       = "s3"
	KindPostgres = "postgres"
	KindPubSub   = "pubsub"
)

// ErrSinkClosed is returned by Write after Close.
var ErrSinkClosed = errors.New("sink closed")

// Sink receives finished results. Write returns the number of payload
// bytes it produced.
type Sink interface {
	Name() string
	Write(ctx context.Context, results []*network.Result) (int, error)
	Close() error
}

// Config selects and configures a sink.
type Config struct {
	Kind     string `yaml:"kind" json:"kind" validate:"omitempty,oneof=stdout file s3 postgres pubsub"`
	Compress bool   `yaml:"compress" json:"compress"`

	// file
	Path string `yaml:"path" json:"path"`

	// s3
	Bucket    string `yaml:"bucket" json:"bucket"`
	Prefix    string `yaml:"prefix" json:"prefix"`
	Region    string `yaml:"region" json:"region"`
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	AccessKey string `yaml:"access_key" json:"-"`
	SecretKey string `yaml:"secret_key" json:"-"`

	// postgres
	DatabaseURL string `yaml:"database_url" json:"-"`
	Table       string `yaml:"table" json:"table"`

	// pubsub
	Address string `yaml:"address" json:"address"`
}

// Validate checks that the selected kind has what it needs.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.NewConfigValidator("Export").
		When(c.Kind == KindFile, func(v *validation.ConfigValidator) {
			v.Required("Path", c.Path)
		}).
		When(c.Kind == KindS3, func(v *validation.ConfigValidator) {
			v.Required("Bucket", c.Bucket)
		}).
		When(c.Kind == KindPostgres, func(v *validation.ConfigValidator) {
			v.Required("DatabaseURL", c.DatabaseURL).
				Custom("Table", func() error {
					if c.Table != "" && !tableName.MatchString(c.Table) {
						return fmt.Errorf("invalid table name %q", c.Table)
					}
					return nil
				})
		}).
		When(c.Kind == KindPubSub, func(v *validation.ConfigValidator) {
			v.Required("Address", c.Address)
		}).
		Validate()
}

// New opens the sink described by cfg. Results for the stdout kind go to out.
func New(ctx context.Context, cfg Config, out io.Writer, logger logging.Logger) (Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrDefault(logger).With(logging.Component("export"))

	switch cfg.Kind {
	case "", KindStdout:
		return NewWriterSink(out), nil
	case KindFile:
		return NewFileSink(cfg.Path, cfg.Compress, logger)
	case KindS3:
		return NewS3Sink(ctx, cfg, logger)
	case KindPostgres:
		return NewPGSink(ctx, cfg.DatabaseURL, cfg.Table, logger)
	case KindPubSub:
		return NewPubSink(cfg.Address, cfg.Compress, logger)
	default:
		return nil, fmt.Errorf("%w: unknown export kind %q", validation.ErrInvalidConfiguration, cfg.Kind)
	}
}

// ObjectKey names the stored object for r: prefix/category/id.json, with
// the overall result under "_overall".
func ObjectKey(prefix string, r *network.Result, compressed bool) string {
	category := "_overall"
	if r.Category != "" {
		category = url.PathEscape(r.Category)
	}
	name := r.ID + ".json"
	if compressed {
		name += ".sz"
	}
	return path.Join(prefix, category, name)
}
