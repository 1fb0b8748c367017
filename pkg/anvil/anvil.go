// Package anvil starts disposable anvil nodes forked from a live network.
package anvil

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	// DefaultBinary is looked up on PATH
	DefaultBinary = "anvil"

	startupTimeout = 15 * time.Second
	pollInterval   = 200 * time.Millisecond
)

// ErrNotInstalled is returned when the anvil binary cannot be found
var ErrNotInstalled = errors.New("anvil not found on PATH (install foundry)")

// Instance describes a node to start
type Instance struct {
	Binary  string
	Port    string
	ChainID uint64
	ForkURL string
	// LogFile receives stdout and stderr; empty discards output
	LogFile string
}

// NewForkInstance returns an instance forking rpcURL on a free local port
func NewForkInstance(rpcURL string, chainID uint64) (*Instance, error) {
	port, err := FreePort()
	if err != nil {
		return nil, err
	}
	return &Instance{
		Binary:  DefaultBinary,
		Port:    port,
		ChainID: chainID,
		ForkURL: rpcURL,
		LogFile: filepath.Join(os.TempDir(), fmt.Sprintf("treb-dao-fork-%s.log", port)),
	}, nil
}

// RPCURL is the HTTP endpoint of the instance
func (i *Instance) RPCURL() string {
	return "http://127.0.0.1:" + i.Port
}

// BuildArgs returns the anvil command line for the instance
func BuildArgs(i *Instance) []string {
	args := []string{"--port", i.Port, "--host", "127.0.0.1"}
	if i.ChainID != 0 {
		args = append(args, "--chain-id", strconv.FormatUint(i.ChainID, 10))
	}
	if i.ForkURL != "" {
		args = append(args, "--fork-url", i.ForkURL)
	}
	return args
}

// Node is a running anvil process
type Node struct {
	Instance *Instance
	RPC      *rpc.Client

	cmd  *exec.Cmd
	done chan error
}

// Start launches anvil and waits until it answers eth_chainId
func Start(ctx context.Context, inst *Instance) (*Node, error) {
	binary := inst.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, ErrNotInstalled
	}

	cmd := exec.Command(path, BuildArgs(inst)...)
	if inst.LogFile != "" {
		logFile, err := os.Create(inst.LogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start anvil: %w", err)
	}

	node := &Node{Instance: inst, cmd: cmd, done: make(chan error, 1)}
	go func() { node.done <- cmd.Wait() }()

	if err := node.waitReady(ctx); err != nil {
		_ = node.Stop()
		return nil, err
	}
	return node, nil
}

func (n *Node) waitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, n.Instance.RPCURL())
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		var chainID hexutil.Uint64
		if err := client.CallContext(ctx, &chainID, "eth_chainId"); err == nil {
			n.RPC = client
			return nil
		}
		select {
		case err := <-n.done:
			client.Close()
			return fmt.Errorf("anvil exited during startup (see %s): %v", n.Instance.LogFile, err)
		case <-ctx.Done():
			client.Close()
			return fmt.Errorf("anvil did not become ready on port %s: %w", n.Instance.Port, ctx.Err())
		case <-ticker.C:
		}
	}
}

// SetBalance funds an account on the node
func (n *Node) SetBalance(ctx context.Context, account common.Address, wei *big.Int) error {
	return n.RPC.CallContext(ctx, nil, "anvil_setBalance", account, (*hexutil.Big)(wei))
}

// Stop terminates the process and waits for it to exit
func (n *Node) Stop() error {
	if n.RPC != nil {
		n.RPC.Close()
	}
	if n.cmd.Process == nil {
		return nil
	}
	if err := n.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = n.cmd.Process.Kill()
	}
	select {
	case <-n.done:
	case <-time.After(5 * time.Second):
		_ = n.cmd.Process.Kill()
		<-n.done
	}
	return nil
}

// FreePort asks the kernel for an unused TCP port
func FreePort() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to find a free port: %w", err)
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port), nil
}
