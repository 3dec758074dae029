package observability

import "go.opentelemetry.io/otel"

// Tracer is the shared tracer for service-level spans.
var Tracer = otel.Tracer("relint")
