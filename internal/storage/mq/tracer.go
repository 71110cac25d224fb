package mq

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

var tracer = otel.Tracer("internal/storage/mq")

// kafkaHooks traces produced and fetched records and carries the W3C trace
// context in record headers, the same format the outbox stores.
func kafkaHooks() []kgo.Hook {
	kTracer := kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
		kotel.TracerPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)),
	)

	return kotel.NewKotel(kotel.WithTracer(kTracer)).Hooks()
}
