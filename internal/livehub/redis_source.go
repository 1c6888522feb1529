package livehub

import (
	"github.com/redis/go-redis/v9"
)

// RedisSource адаптує підписку Redis Pub/Sub до контракту EventSource.
type RedisSource struct {
	pubsub *redis.PubSub
	out    chan []byte
}

func NewRedisSource(pubsub *redis.PubSub) *RedisSource {
	s := &RedisSource{
		pubsub: pubsub,
		out:    make(chan []byte),
	}

	go func() {
		defer close(s.out)
		for msg := range pubsub.Channel() {
			s.out <- []byte(msg.Payload)
		}
	}()

	return s
}

func (s *RedisSource) Events() <-chan []byte {
	return s.out
}

// Close зупиняє підписку; канал Events закриється слідом.
func (s *RedisSource) Close() error {
	return s.pubsub.Close()
}
