package loadbalancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobin_Next(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8081", "http://b:8081"})

	assert.Equal(t, "http://a:8081", rr.Next())
	assert.Equal(t, "http://b:8081", rr.Next())
	assert.Equal(t, "http://a:8081", rr.Next())
}

func TestRoundRobin_Empty(t *testing.T) {
	rr := NewRoundRobin(nil)
	assert.Equal(t, "", rr.Next())
}

func TestRoundRobin_RemoveServer(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8081", "http://b:8081"})

	rr.Next()
	rr.Next()
	rr.RemoveServer("http://b:8081")

	assert.Equal(t, []string{"http://a:8081"}, rr.GetServers())
	assert.Equal(t, "http://a:8081", rr.Next())
	assert.Equal(t, "http://a:8081", rr.Next())
}

func TestRoundRobin_AddServer(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a:8081"})

	rr.AddServer("http://b:8081")

	assert.Len(t, rr.GetServers(), 2)
}
