package cache

import (
	"io"
	"net"
	"testing"

	"clinic-operations/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(config.RedisConfig{Host: mr.Host(), Port: mr.Port()}, log)
	require.NoError(t, err)
	defer client.Close()

	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	mr.Close()

	_, err = NewRedisClient(config.RedisConfig{Host: host, Port: port}, log)
	assert.Error(t, err)
}
