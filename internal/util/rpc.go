package util

import (
	"context"
	"reflect"
	"runtime"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
)

// MakeRPC calls fn until it succeeds, ctx is done or attempts calls have
// failed, doubling the wait between calls starting from backoff. Each call
// gets its own one second deadline.
func MakeRPC[T any, S any](ctx context.Context, req T, fn func(context.Context, T, ...grpc.CallOption) (S, error), attempts int, backoff time.Duration) (S, error) {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()

	var (
		r   S
		err error
	)
	for i := 0; i < attempts; i++ {
		cctx, cancel := context.WithTimeout(ctx, time.Second)
		r, err = fn(cctx, req)
		cancel()
		if err == nil {
			log.WithFields(log.Fields{
				"rpc name": name,
			}).Debug("rpc call")
			return r, nil
		}

		log.WithFields(log.Fields{
			"rpc name": name,
			"attempt":  i + 1,
			"error":    err,
		}).Warn("cannot make rpc call")

		select {
		case <-ctx.Done():
			return r, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return r, errors.Wrapf(err, "%s failed after %d attempts", name, attempts)
}
