// Command ntcp2-demo drives NTCP2 handshakes over real TCP connections, in
// either listener role (one handshake per accepted connection, until the
// process is stopped) or dialer role (a single handshake), and reports the
// negotiated SipHash transport material on each success.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/flynn/noise"
	"github.com/go-i2p/logger"
	"github.com/go-i2p/ntcp2core/common"
	"github.com/go-i2p/ntcp2core/handshake"
	"github.com/go-i2p/ntcp2core/ntcp2"
	"github.com/sirupsen/logrus"
)

var log = logger.GetGoI2PLogger()

func main() {
	mode := flag.String("mode", "listen", "listen or dial")
	addr := flag.String("addr", "127.0.0.1:17890", "local listen address, or remote dial address")
	identityOut := flag.String("identity-out", "", "path to write this run's signed RouterInfo bytes")
	peerIn := flag.String("peer-in", "", "path to a peer's signed RouterInfo bytes (required for -mode=dial)")
	flag.Parse()

	local, secrets, err := generateLocalRouterInfo(*addr)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err}).Fatal("failed to generate local identity")
	}
	if *identityOut != "" {
		if err := os.WriteFile(*identityOut, local.Bytes(), 0o600); err != nil {
			log.WithFields(logrus.Fields{"error": err, "path": *identityOut}).Fatal("failed to write identity")
		}
		fmt.Printf("wrote local RouterInfo (%d bytes) to %s\n", len(local.Bytes()), *identityOut)
	}

	cfg := ntcp2.NewConfig(noise.DHKey{Private: secrets.PrivateKey, Public: local.Identity.PublicKey}, local.Hash(), obfuscationIV(local))

	switch *mode {
	case "listen":
		runListener(*addr, cfg, local)
	case "dial":
		if *peerIn == "" {
			log.Fatal("-peer-in is required for -mode=dial")
		}
		peer, err := loadPeerRouterInfo(*peerIn)
		if err != nil {
			log.WithFields(logrus.Fields{"error": err}).Fatal("failed to load peer RouterInfo")
		}
		runDialer(*addr, cfg, local, peer)
	default:
		log.WithFields(logrus.Fields{"mode": *mode}).Fatal("unknown mode, want listen or dial")
	}
}

func generateLocalRouterInfo(listenAddr string) (*common.RouterInfo, common.RouterSecretKeys, error) {
	secrets, err := common.GenerateRouterSecretKeys(common.EncECIESX25519AEADRatchet, common.SigEdDSASHA512Ed25519)
	if err != nil {
		return nil, common.RouterSecretKeys{}, err
	}

	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return nil, common.RouterSecretKeys{}, err
	}

	var iv [16]byte
	if _, err := readRandom(iv[:]); err != nil {
		return nil, common.RouterSecretKeys{}, err
	}

	opts := common.NewMapping(map[common.I2PString]common.I2PString{
		"host": common.I2PString(host),
		"port": common.I2PString(port),
		"v":    common.I2PString(handshake.NTCP2Version),
		"s":    common.I2PString(common.EncodeBase64(secrets.Identity.PublicKey)),
		"i":    common.I2PString(common.EncodeBase64(iv[:])),
	})
	ntcp2Addr := common.NewRouterAddress(10, common.I2PDate(0), common.I2PString(handshake.NTCP2Style), opts)

	ri := common.NewRouterInfo(secrets.Identity, common.DateFromTime(time.Now()), []common.RouterAddress{ntcp2Addr}, nil)
	if err := ri.Sign(secrets.SigningPrivate); err != nil {
		return nil, common.RouterSecretKeys{}, err
	}
	return ri, secrets, nil
}

func obfuscationIV(ri *common.RouterInfo) [16]byte {
	addr, ok := ri.Address(handshake.NTCP2Style, nil)
	var iv [16]byte
	if !ok {
		return iv
	}
	raw, err := common.DecodeBase64(addr.IVBase64())
	if err != nil || len(raw) != 16 {
		return iv
	}
	copy(iv[:], raw)
	return iv
}

func loadPeerRouterInfo(path string) (*common.RouterInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	peer, _, err := common.ReadRouterInfo(data)
	return peer, err
}

func readRandom(b []byte) (int, error) {
	f, err := os.Open("/dev/urandom")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return f.Read(b)
}

func runListener(addr string, cfg *ntcp2.Config, local *common.RouterInfo) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err, "addr": addr}).Fatal("failed to listen")
	}
	defer ln.Close()
	fmt.Printf("listening on %s, router hash %s\n", ln.Addr(), local.Hash())

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.WithFields(logrus.Fields{"error": err}).Error("accept failed")
			continue
		}
		go func(c net.Conn) {
			defer c.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			result, err := ntcp2.Inbound(ctx, c, cfg)
			if err != nil {
				log.WithFields(logrus.Fields{"error": err, "remote": c.RemoteAddr()}).Error("inbound handshake failed")
				return
			}
			reportResult("inbound", result)
		}(conn)
	}
}

func runDialer(addr string, cfg *ntcp2.Config, local, peer *common.RouterInfo) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err, "addr": addr}).Fatal("failed to dial")
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := ntcp2.Outbound(ctx, conn, cfg, local, peer)
	if err != nil {
		log.WithFields(logrus.Fields{"error": err, "addr": addr}).Fatal("outbound handshake failed")
	}
	reportResult("outbound", result)
}

func reportResult(role string, result *ntcp2.Result) {
	fmt.Printf("%s handshake complete with peer %s\n", role, result.PeerRouterInfo.Hash())
	fmt.Printf("  send siphash k1=%x k2=%x iv=%x\n", result.Send.K1, result.Send.K2, result.Send.IV)
	fmt.Printf("  recv siphash k1=%x k2=%x iv=%x\n", result.Recv.K1, result.Recv.K2, result.Recv.IV)
}
