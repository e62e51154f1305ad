package ntcp2

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/flynn/noise"
	"github.com/go-i2p/ntcp2core/common"
	"github.com/go-i2p/ntcp2core/handshake"
	"github.com/stretchr/testify/require"
)

// buildRouterInfo constructs a minimal signed RouterInfo advertising one
// NTCP2 address for the given static keypair and host:port.
func buildRouterInfo(t *testing.T, staticPub [32]byte, obfIV [16]byte, host, port string) (*common.RouterInfo, common.RouterSecretKeys) {
	t.Helper()

	secrets, err := common.GenerateRouterSecretKeys(common.EncECIESX25519AEADRatchet, common.SigEdDSASHA512Ed25519)
	require.NoError(t, err)

	opts := common.NewMapping(map[common.I2PString]common.I2PString{
		"host": common.I2PString(host),
		"port": common.I2PString(port),
		"v":    common.I2PString(handshake.NTCP2Version),
		"s":    common.I2PString(common.EncodeBase64(staticPub[:])),
		"i":    common.I2PString(common.EncodeBase64(obfIV[:])),
	})
	addr := common.NewRouterAddress(10, common.I2PDate(0), common.I2PString(handshake.NTCP2Style), opts)

	ri := common.NewRouterInfo(secrets.Identity, common.I2PDate(uint64(time.Now().UnixMilli())), []common.RouterAddress{addr}, nil)
	require.NoError(t, ri.Sign(secrets.SigningPrivate))
	require.True(t, ri.VerifySignature())
	return ri, secrets
}

// TestOutboundInboundRoundTrip drives a full NTCP2 handshake between an
// Outbound and an Inbound state machine over an in-memory pipe, the
// strongest available signal that the wire framing in handshake/ and the
// Noise session wrapper in ntcp2session compose correctly end to end.
func TestOutboundInboundRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	serverPriv, serverPub, err := common.GenerateX25519Keypair()
	require.NoError(t, err)
	clientPriv, clientPub, err := common.GenerateX25519Keypair()
	require.NoError(t, err)

	var obfIV [16]byte
	copy(obfIV[:], []byte("server-obf-iv!!!"))

	serverRI, serverSecrets := buildRouterInfo(t, serverPub, obfIV, "10.0.0.1", "12345")
	_ = serverSecrets
	clientRI, _ := buildRouterInfo(t, clientPub, obfIV, "10.0.0.2", "23456")

	serverCfg := NewConfig(noise.DHKey{Private: serverPriv[:], Public: serverPub[:]}, serverRI.Hash(), obfIV)
	clientCfg := NewConfig(noise.DHKey{Private: clientPriv[:], Public: clientPub[:]}, serverRI.Hash(), obfIV)

	type outcome struct {
		result *Result
		err    error
	}
	clientDone := make(chan outcome, 1)
	serverDone := make(chan outcome, 1)

	go func() {
		r, err := Outbound(context.Background(), clientConn, clientCfg, clientRI, serverRI)
		clientDone <- outcome{r, err}
	}()
	go func() {
		r, err := Inbound(context.Background(), serverConn, serverCfg)
		serverDone <- outcome{r, err}
	}()

	clientOut := <-clientDone
	serverOut := <-serverDone

	require.NoError(t, clientOut.err)
	require.NoError(t, serverOut.err)

	require.Equal(t, clientRI.Hash(), serverOut.result.PeerRouterInfo.Hash())
	require.Equal(t, clientOut.result.Send, serverOut.result.Recv)
	require.Equal(t, clientOut.result.Recv, serverOut.result.Send)
}
