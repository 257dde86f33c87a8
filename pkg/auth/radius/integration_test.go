//go:build integration

package radius

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/config"
)

const freeradiusImage = "freeradius/freeradius-server:3.2.3"

const clientsConf = `client any {
	ipaddr = 0.0.0.0/0
	secret = testing123
	require_message_authenticator = no
}
`

const authorizeFile = `alice Cleartext-Password := "wonderland"
	Reply-Message := "Welcome alice",
	Filter-Id := "editors"
`

// startFreeRADIUS runs a FreeRADIUS server that knows one user,
// alice/wonderland, and returns its host and mapped UDP port.
func startFreeRADIUS(t *testing.T) (string, int) {
	t.Helper()

	ctx := context.Background()
	dir := t.TempDir()

	clientsPath := filepath.Join(dir, "clients.conf")
	require.NoError(t, os.WriteFile(clientsPath, []byte(clientsConf), 0644))
	authorizePath := filepath.Join(dir, "authorize")
	require.NoError(t, os.WriteFile(authorizePath, []byte(authorizeFile), 0644))

	req := testcontainers.ContainerRequest{
		Image:        freeradiusImage,
		Cmd:          []string{"-X"},
		ExposedPorts: []string{"1812/udp"},
		Files: []testcontainers.ContainerFile{
			{HostFilePath: clientsPath, ContainerFilePath: "/etc/raddb/clients.conf", FileMode: 0644},
			{HostFilePath: authorizePath, ContainerFilePath: "/etc/raddb/mods-config/files/authorize", FileMode: 0644},
		},
		WaitingFor: wait.ForLog("Ready to process requests").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start FreeRADIUS container")

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err, "failed to get FreeRADIUS host")

	mapped, err := container.MappedPort(ctx, "1812/udp")
	require.NoError(t, err, "failed to get FreeRADIUS port")

	return host, mapped.Int()
}

func TestIntegration_FreeRADIUS(t *testing.T) {
	host, port := startFreeRADIUS(t)

	cfg := &config.RadiusConfig{
		Server:        host,
		Port:          port,
		Secret:        "testing123",
		Timeout:       time.Second,
		MaxTries:      2,
		NASIdentifier: "radiusauth-integration",
	}
	p := NewProvider(cfg)
	ctx := context.Background()

	t.Run("Accept", func(t *testing.T) {
		resp := p.BeginPrimaryAuthentication(ctx, passwordRequest("Alice", "wonderland"))
		require.Equal(t, auth.StatusPass, resp.Status, "err: %v", resp.Err)
		assert.Equal(t, "Alice", resp.Username)
		assert.Equal(t, "Welcome alice", resp.Attributes[AttrReplyMessage])
		assert.Equal(t, "editors", resp.Attributes[AttrFilterID])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp := p.BeginPrimaryAuthentication(ctx, passwordRequest("alice", "looking-glass"))
		assert.Equal(t, auth.StatusFail, resp.Status)
		assert.Equal(t, auth.MsgNoPrimary, resp.Message)
		assert.ErrorIs(t, resp.Err, auth.ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		resp := p.BeginPrimaryAuthentication(ctx, passwordRequest("bob", "wonderland"))
		assert.Equal(t, auth.StatusFail, resp.Status)
	})

	t.Run("WrongSecretTimesOut", func(t *testing.T) {
		bad := *cfg
		bad.Secret = "not-the-secret"
		bad.Timeout = 200 * time.Millisecond
		bad.MaxTries = 1

		resp := NewProvider(&bad).BeginPrimaryAuthentication(ctx, passwordRequest("alice", "wonderland"))
		assert.Equal(t, auth.StatusFail, resp.Status)
		assert.Equal(t, auth.MsgNoPrimary, resp.Message)
	})

	t.Run("NothingListening", func(t *testing.T) {
		closed := *cfg
		closed.Port = port + 1
		if closed.Port > 65535 {
			t.Skip("no free port above " + strconv.Itoa(port))
		}
		closed.Timeout = 100 * time.Millisecond
		closed.MaxTries = 0

		resp := NewProvider(&closed).BeginPrimaryAuthentication(ctx, passwordRequest("alice", "wonderland"))
		assert.Equal(t, auth.StatusFail, resp.Status)
	})
}
