package discovery

import (
	"testing"

	"github.com/example/honeystore/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstanceKey(t *testing.T) {
	inst := &ServiceInstance{Name: "storefront", Host: "10.0.0.7", Port: 8000}

	assert.Equal(t, "/services/storefront/10.0.0.7:8000", InstanceKey("/services/", inst))
	assert.Equal(t, "10.0.0.7:8000", inst.Addr())
}

func TestNewRegistrarDisabledWithoutEndpoints(t *testing.T) {
	r, err := NewRegistrar(&config.EtcdConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, r)
}
