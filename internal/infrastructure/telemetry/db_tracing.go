package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prakruthi/storefront/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracingPlugin adds otelgorm spans plus slow query and error marking
type DBTracingPlugin struct {
	slowQueryThresh time.Duration
	dbName          string
	logger          *zap.Logger
}

// NewDBTracingPlugin creates the plugin from telemetry config
func NewDBTracingPlugin(cfg config.TelemetryConfig, dbName string, logger *zap.Logger) *DBTracingPlugin {
	thresh := cfg.DBSlowQueryThresh
	if thresh <= 0 {
		thresh = defaultSlowQueryThreshold
	}
	return &DBTracingPlugin{slowQueryThresh: thresh, dbName: dbName, logger: logger}
}

// Register installs otelgorm and the timing callbacks on db.
// Query variables are never attached to spans.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(p.dbName),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	cb := db.Callback()
	type hook struct {
		before, after func() error
	}
	hooks := []hook{
		{
			before: func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", p.before) },
			after:  func() error { return cb.Create().After("gorm:create").Register("otel_timing:after_create", p.after) },
		},
		{
			before: func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", p.before) },
			after:  func() error { return cb.Query().After("gorm:query").Register("otel_timing:after_query", p.after) },
		},
		{
			before: func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", p.before) },
			after:  func() error { return cb.Update().After("gorm:update").Register("otel_timing:after_update", p.after) },
		},
		{
			before: func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", p.before) },
			after:  func() error { return cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", p.after) },
		},
		{
			before: func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", p.before) },
			after:  func() error { return cb.Row().After("gorm:row").Register("otel_timing:after_row", p.after) },
		},
		{
			before: func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", p.before) },
			after:  func() error { return cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", p.after) },
		},
	}
	for _, h := range hooks {
		if err := h.before(); err != nil {
			return err
		}
		if err := h.after(); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", p.slowQueryThresh))
	return nil
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.slowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.slowQueryThresh.Milliseconds()),
			))
		}
	}
}
