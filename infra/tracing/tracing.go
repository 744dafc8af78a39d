package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerlog "github.com/uber/jaeger-client-go/log"
	"github.com/uber/jaeger-lib/metrics"
)

// Bootstrap builds the global tracer from the JAEGER_* environment and
// returns its closer. A broken tracing environment only costs the traces.
func Bootstrap(serviceName string) io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Warn("failed to parse jaeger environment: ", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	tracer, closer, err := cfg.NewTracer(
		jaegercfg.Logger(jaegerlog.NullLogger),
		jaegercfg.Metrics(metrics.NullFactory),
	)
	if err != nil {
		logrus.Warn("failed to create jaeger tracer: ", err)
		return nil
	}

	opentracing.SetGlobalTracer(tracer)
	return closer
}
