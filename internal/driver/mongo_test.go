package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMongoAppliesDefaultConnectTimeout(t *testing.T) {
	m := NewMongo(MongoConfig{URI: "mongodb://localhost", DatabaseName: "d", CollectionName: "c"})
	assert.Equal(t, DefaultConnectTimeout, m.cfg.ConnectTimeout)
}

func TestNewMongoPreservesExplicitConnectTimeout(t *testing.T) {
	m := NewMongo(MongoConfig{ConnectTimeout: 30 * time.Second})
	assert.Equal(t, 30*time.Second, m.cfg.ConnectTimeout)
}
