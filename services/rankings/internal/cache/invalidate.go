package cache

import (
	"context"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// AllKeys in an invalidation message clears the whole namespace.
const AllKeys = "ALL"

// SubscribeInvalidation deletes cached keys announced on subj. The message
// body is a full cache key, or empty / "ALL" to drop every key under namespace.
func SubscribeInvalidation(nc *nats.Conn, subj string, s Store, namespace string, log *zap.Logger) (*nats.Subscription, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return nc.Subscribe(subj, func(m *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := Invalidate(ctx, s, namespace, string(m.Data))
		if err != nil {
			log.Warn("cache invalidation failed", zap.String("subject", subj), zap.Error(err))
			return
		}
		log.Info("cache invalidated", zap.String("target", string(m.Data)), zap.Int("removed", n))
	})
}

// Invalidate removes target from s. Keys outside namespace are ignored.
func Invalidate(ctx context.Context, s Store, namespace, target string) (int, error) {
	target = strings.TrimSpace(target)
	prefix := namespace + ":"
	if target == "" || strings.EqualFold(target, AllKeys) {
		return s.DeletePrefix(ctx, prefix)
	}
	if !strings.HasPrefix(target, prefix) {
		return 0, nil
	}
	if err := s.Delete(ctx, target); err != nil {
		return 0, err
	}
	return 1, nil
}
