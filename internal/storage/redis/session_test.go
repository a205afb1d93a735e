package redis

import (
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewSessionStoreValidates(t *testing.T) {
	_, err := NewSessionStore(nil, time.Minute)
	assert.Error(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	_, err = NewSessionStore(client, 0)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "jf:session:abc", key("abc"))
}
