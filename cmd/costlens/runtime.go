package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/costlens/pkg/cli"
	"mercator-hq/costlens/pkg/config"
	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/events"
	"mercator-hq/costlens/pkg/export"
	"mercator-hq/costlens/pkg/processor"
	"mercator-hq/costlens/pkg/telemetry/logging"
	"mercator-hq/costlens/pkg/telemetry/metrics"
	"mercator-hq/costlens/pkg/telemetry/tracing"
)

// runtimeEnv holds what every report command needs.
type runtimeEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// loadConfig loads the --config file, or costlens.yaml when present, and
// publishes it as the global configuration.
func loadConfig() (*config.Config, error) {
	var (
		cfg    *config.Config
		source = cfgFile
		err    error
	)
	if cfgFile == "" {
		source = config.OptionalSource(config.DefaultConfigPath)
		cfg, err = config.LoadOptional(config.DefaultConfigPath)
	} else {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
	}
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}

	applyGlobalFlags(cfg)
	config.SetConfig(cfg, source)
	return cfg, nil
}

// applyGlobalFlags applies --verbose and --log-level.
func applyGlobalFlags(cfg *config.Config) {
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
}

// newRuntime loads configuration and creates the logger, the tracer and,
// when enabled, the metrics collector. Callers must close the runtime.
func newRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	env, err := runtimeFor(cmd, cfg)
	if err != nil {
		return nil, err
	}

	env.tracer, err = tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.tracing", err.Error())
	}
	if cfg.Telemetry.Metrics.Enabled {
		env.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}
	return env, nil
}

// runtimeFor creates a runtime with a logger for cfg. Tracer and metrics are
// left unset.
func runtimeFor(cmd *cobra.Command, cfg *config.Config) (*runtimeEnv, error) {
	logCfg := logging.FromConfig(&cfg.Telemetry.Logging)
	logCfg.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return &runtimeEnv{cfg: cfg, logger: logger}, nil
}

// close flushes pending spans.
func (env *runtimeEnv) close() {
	if env.tracer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), env.cfg.Telemetry.Tracing.Timeout)
	defer cancel()
	if err := env.tracer.Shutdown(ctx); err != nil {
		env.logger.Warn("failed to flush traces", "error", err)
	}
}

// startRun tags ctx with a fresh run id, the log path and the command name,
// and opens the root span of the run. A TRACEPARENT in the environment
// becomes the parent of that span.
func (env *runtimeEnv) startRun(ctx context.Context, cmd *cobra.Command, logPath string) (context.Context, trace.Span) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	ctx = logging.WithLogPath(ctx, logPath)
	ctx = logging.WithCommand(ctx, cmd.Name())

	ctx = tracing.FromEnvironment(ctx)
	ctx, span := env.tracer.Start(ctx, "costlens."+cmd.Name(),
		trace.WithAttributes(tracing.RunAttributes(runID, cmd.Name(), logPath)...))
	if env.tracer.Enabled() {
		env.logger.DebugContext(ctx, "run started", "trace_id", tracing.TraceID(ctx))
	}
	return ctx, span
}

// endRun closes the root span with the status of err and returns err.
func endRun(span trace.Span, err error) error {
	tracing.SetStatus(span, err)
	span.End()
	return err
}

// calculator returns a calculator for the configured rates.
func (env *runtimeEnv) calculator() *costs.Calculator {
	r := env.cfg.Rates
	return costs.NewCalculator(costs.RatesFromFloats(r.CompletionPerMillion, r.CacheWritePerMillion, r.CacheReadPerMillion))
}

// processorConfig builds the processor configuration. A non-empty variant
// overrides processing.variant.
func (env *runtimeEnv) processorConfig(variant string) (processor.Config, error) {
	if variant == "" {
		variant = env.cfg.Processing.Variant
	}
	v, err := processor.ParseVariant(variant)
	if err != nil {
		return processor.Config{}, err
	}

	pc := processor.Config{
		Variant:           v,
		CorrelationWindow: env.cfg.Processing.CorrelationWindow,
		StalenessWindow:   env.cfg.Processing.StalenessWindow,
		MessageWidth:      env.cfg.Processing.MessageWidth,
		Rates:             env.calculator().Rates(),
	}
	if env.cfg.Processing.RedactMessages {
		pc.MessageFilter = logging.NewRedactor(env.cfg.Telemetry.Logging.RedactPatterns).RedactString
	}
	return pc, nil
}

// process loads the event log and converts it to cost rows.
func (env *runtimeEnv) process(ctx context.Context, logPath, variant string) ([]*events.Event, *processor.Result, error) {
	pc, err := env.processorConfig(variant)
	if err != nil {
		return nil, nil, err
	}

	evs, err := env.load(ctx, logPath)
	if err != nil {
		return nil, nil, err
	}

	pctx, span := env.tracer.Start(ctx, "costlens.correlate")
	result, err := processor.New(pc, env.logger).Process(pctx, evs)
	tracing.SetResult(span, result)
	tracing.SetStatus(span, err)
	span.End()
	if err != nil {
		return nil, nil, err
	}

	env.logger.InfoContext(ctx, "processed event log",
		"events", result.Stats.Events,
		"rows", result.Stats.Rows,
		"stale", result.Stats.Stale,
		"variant", string(result.Variant),
	)

	if env.metrics != nil {
		env.metrics.RecordResult(result)
		if err := env.metrics.WriteTextfile(env.cfg.Telemetry.Metrics.TextfilePath); err != nil {
			env.logger.WarnContext(ctx, "failed to write metrics", "error", err)
		}
	}
	return evs, result, nil
}

// load reads the event log under a span.
func (env *runtimeEnv) load(ctx context.Context, logPath string) ([]*events.Event, error) {
	_, span := env.tracer.Start(ctx, "costlens.load")
	defer span.End()

	evs, err := events.Load(logPath)
	tracing.SetStatus(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int(tracing.AttrEvents, len(evs)))
	}
	return evs, err
}

// precision returns the configured money precision.
func (env *runtimeEnv) precision() int32 {
	return int32(env.cfg.Output.Precision)
}

// outputPath returns the -o flag, or output.path when the flag is empty.
func (env *runtimeEnv) outputPath(flag string) string {
	if flag != "" {
		return flag
	}
	return env.cfg.Output.Path
}

// writeTable exports t in format to path, or to the command output when path
// is empty.
func (env *runtimeEnv) writeTable(ctx context.Context, cmd *cobra.Command, t *export.Table, format export.Format, path string) (err error) {
	ctx, span := env.tracer.Start(ctx, "costlens.export",
		trace.WithAttributes(attribute.String(tracing.AttrFormat, string(format))))
	defer func() {
		tracing.SetStatus(span, err)
		span.End()
	}()

	if format == export.FormatSQLite {
		return fmt.Errorf("sqlite output is only available for the process and watch commands")
	}

	exporter, err := export.New(format)
	if err != nil {
		return err
	}

	out, err := cli.OpenOutput(path, cmd.OutOrStdout())
	if err != nil {
		return export.NewExportError(string(format), t.Len(), err)
	}
	defer out.Close()

	return exporter.Export(ctx, t, out)
}
