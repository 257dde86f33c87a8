package radius

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marmos91/radiusauth/pkg/config"
)

func TestNASIdentifier_Configured(t *testing.T) {
	cfg := &config.RadiusConfig{NASIdentifier: "mediawiki"}
	assert.Equal(t, "mediawiki", NASIdentifier(cfg))
}

func TestNASIdentifier_DefaultsToHostname(t *testing.T) {
	host, err := os.Hostname()
	if err != nil {
		t.Skipf("host name unavailable: %v", err)
	}
	assert.Equal(t, host, NASIdentifier(&config.RadiusConfig{}))
}

func TestOnceHostname_ComputedOnce(t *testing.T) {
	var calls atomic.Int32
	hostname := onceHostname(func() (string, error) {
		calls.Add(1)
		return "wiki-host", nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "wiki-host", nasIdentifier(&config.RadiusConfig{}, hostname))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestOnceHostname_LookupFailure(t *testing.T) {
	hostname := onceHostname(func() (string, error) {
		return "", errors.New("uname failed")
	})
	assert.Empty(t, hostname())
}
