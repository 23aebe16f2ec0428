// Package container provides dependency injection for the budget
// dashboard. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"net/http"

	"fjacquet/budget-dashboard/internal/common"
	"fjacquet/budget-dashboard/internal/config"
	"fjacquet/budget-dashboard/internal/csvsource"
	"fjacquet/budget-dashboard/internal/importer"
	"fjacquet/budget-dashboard/internal/kvstore"
	"fjacquet/budget-dashboard/internal/logging"
	"fjacquet/budget-dashboard/internal/mapper"
	"fjacquet/budget-dashboard/internal/models"
	"fjacquet/budget-dashboard/internal/report"
	"fjacquet/budget-dashboard/internal/store"
	"fjacquet/budget-dashboard/internal/tableview"
	"fjacquet/budget-dashboard/internal/writeback"

	"google.golang.org/api/option"
)

// Container holds all application dependencies. It is immutable after
// creation; dependencies are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	kv         kvstore.KV
	store      *store.Store
	fetcher    csvsource.Fetcher
	importer   *importer.Importer
	writer     *common.Writer
	reporter   *report.Generator
	dispatcher *writeback.Dispatcher
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

type options struct {
	logger        logging.Logger
	kv            kvstore.KV
	httpClient    *http.Client
	sink          writeback.Sink
	sheetsOptions []option.ClientOption
}

// WithLogger replaces the logrus logger built from the config.
func WithLogger(l logging.Logger) Option { return func(o *options) { o.logger = l } }

// WithKV replaces the storage backend named in the config.
func WithKV(kv kvstore.KV) Option { return func(o *options) { o.kv = kv } }

// WithHTTPClient sets the client used for remote sources and HTTP writeback.
func WithHTTPClient(c *http.Client) Option { return func(o *options) { o.httpClient = c } }

// WithWritebackSink replaces the configured writeback sink.
func WithWritebackSink(s writeback.Sink) Option { return func(o *options) { o.sink = s } }

// WithSheetsOptions passes extra client options to the Sheets service.
func WithSheetsOptions(opts ...option.ClientOption) Option {
	return func(o *options) { o.sheetsOptions = append(o.sheetsOptions, opts...) }
}

// NewContainer creates and wires all application dependencies and loads
// the saved dataset.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	delimiter := cfg.DelimiterRune()

	kv := o.kv
	if kv == nil {
		var err error
		kv, err = kvstore.Open(kvstore.Options{
			Backend:    cfg.Storage.Backend,
			Directory:  cfg.Storage.Directory,
			SQLitePath: cfg.Storage.SQLitePath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
	}

	st := store.New(kv, logger.WithField("component", "store"), store.WithKey(cfg.Storage.Key))
	st.Load(ctx)

	router := &csvsource.Router{
		Remote: csvsource.NewRemoteSource(httpClient, cfg.SourceTimeout(), delimiter, logger),
		Local:  csvsource.LocalSource{Delimiter: delimiter},
	}
	if cfg.Sources.SheetsAPIKey != "" || len(o.sheetsOptions) > 0 {
		sheets, err := csvsource.NewSheetsSource(ctx, cfg.Sources.SheetsAPIKey, logger, o.sheetsOptions...)
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		router.Sheets = sheets
	}

	c := &Container{
		logger:   logger,
		config:   cfg,
		kv:       kv,
		store:    st,
		fetcher:  router,
		importer: importer.New(router, mapper.New(), st, logger.WithField("component", "importer")),
		writer:   common.NewWriter(delimiter, logger),
		reporter: report.NewGenerator(logger),
	}

	if cfg.Writeback.Enabled || o.sink != nil {
		sink := o.sink
		if sink == nil {
			var err error
			sink, err = newSink(cfg, httpClient)
			if err != nil {
				_ = kv.Close()
				return nil, err
			}
		}
		c.dispatcher = writeback.NewDispatcher(sink, cfg.WritebackTimeout(), logger.WithField("component", "writeback"))
		st.Subscribe(c.dispatcher)
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldBackend, cfg.Storage.Backend),
		logging.F("writeback", c.dispatcher != nil),
		logging.F("sheets", router.Sheets != nil))

	return c, nil
}

func newSink(cfg *config.Config, client *http.Client) (writeback.Sink, error) {
	if cfg.Writeback.AMQPURL != "" {
		sink, err := writeback.DialAMQP(cfg.Writeback.AMQPURL, cfg.Writeback.AMQPExchange, cfg.Writeback.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("failed to connect writeback broker: %w", err)
		}
		return sink, nil
	}
	return writeback.NewHTTPSink(cfg.Writeback.Endpoint, client), nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetStore returns the dataset store.
func (c *Container) GetStore() *store.Store { return c.store }

// GetFetcher returns the source router.
func (c *Container) GetFetcher() csvsource.Fetcher { return c.fetcher }

// GetImporter returns the CSV importer.
func (c *Container) GetImporter() *importer.Importer { return c.importer }

// GetCSVWriter returns the canonical CSV writer.
func (c *Container) GetCSVWriter() *common.Writer { return c.writer }

// GetReportGenerator returns the dashboard report generator.
func (c *Container) GetReportGenerator() *report.Generator { return c.reporter }

// WritebackEnabled reports whether changes are mirrored to a sink.
func (c *Container) WritebackEnabled() bool { return c.dispatcher != nil }

// Sources returns the configured source location per collection; kinds
// without a location are left out.
func (c *Container) Sources() map[models.Kind]string {
	out := make(map[models.Kind]string)
	for _, k := range models.Kinds {
		if loc := c.config.Source(string(k)); loc != "" {
			out[k] = loc
		}
	}
	return out
}

// NewTableView returns a view of kind using the configured page size.
func (c *Container) NewTableView(kind models.Kind) (*tableview.View, error) {
	names := tableview.CategoryNames(c.store.GetAll(models.KindCategories))
	cfg, ok := tableview.Preset(kind, names)
	if !ok {
		return nil, fmt.Errorf("no table for %q", kind)
	}
	v := tableview.New(cfg, c.store)
	if err := v.SetPageSize(c.config.Table.DefaultPageSize); err != nil {
		return nil, err
	}
	return v, nil
}

// Close releases the writeback sink and the storage backend.
func (c *Container) Close() error {
	var firstErr error
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.kv.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	c.logger.Debug("Container closed")
	return firstErr
}
