// Package metrics keeps process-wide request counters and publishes them
// through expvar at /debug/vars.
package metrics

import (
	"context"
	"expvar"
	"runtime"
	"strconv"
	"sync"
)

type metrics struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
	panics     *expvar.Int
	responses  *expvar.Map
}

var (
	m    *metrics
	once sync.Once
)

func get() *metrics {
	once.Do(func() {
		m = &metrics{
			goroutines: expvar.NewInt("goroutines"),
			requests:   expvar.NewInt("requests"),
			errors:     expvar.NewInt("errors"),
			panics:     expvar.NewInt("panics"),
			responses:  expvar.NewMap("responses"),
		}
	})
	return m
}

type ctxKey int

const key ctxKey = 1

// Set puts the counters into ctx.
func Set(ctx context.Context) context.Context {
	return context.WithValue(ctx, key, get())
}

func from(ctx context.Context) *metrics {
	v, ok := ctx.Value(key).(*metrics)
	if !ok {
		return get()
	}
	return v
}

// AddGoroutines records the current goroutine count.
func AddGoroutines(ctx context.Context) int64 {
	g := int64(runtime.NumGoroutine())
	from(ctx).goroutines.Set(g)
	return g
}

func AddRequests(ctx context.Context) int64 {
	v := from(ctx)
	v.requests.Add(1)
	return v.requests.Value()
}

func AddErrors(ctx context.Context) int64 {
	v := from(ctx)
	v.errors.Add(1)
	return v.errors.Value()
}

func AddPanics(ctx context.Context) int64 {
	v := from(ctx)
	v.panics.Add(1)
	return v.panics.Value()
}

// AddResponse counts a response under its status class, such as "4xx".
func AddResponse(ctx context.Context, status int) {
	from(ctx).responses.Add(strconv.Itoa(status/100)+"xx", 1)
}
