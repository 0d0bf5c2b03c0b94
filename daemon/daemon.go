package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kiwi-automation/kiwi/config"
	"github.com/kiwi-automation/kiwi/server"
	"github.com/sevlyar/go-daemon"
	"go.uber.org/multierr"
)

const (
	// DaemonEnvVar is the environment variable that marks a daemon child process
	DaemonEnvVar = "KIWI_DAEMON_CHILD"

	PidFileName = "kiwi-server.pid"
	LogFileName = "kiwi-server.log"

	// ReadyTimeout bounds how long the parent waits for the child to answer.
	ReadyTimeout = 10 * time.Second

	rpcRequestID = 1
)

var readyPollInterval = 100 * time.Millisecond

// Options is the server a daemon runs, resolved from the loaded config.
type Options struct {
	Listen     string
	CORS       bool
	BackendURL string
	// RunDir holds the pid and log files.
	RunDir string
}

// OptionsFromConfig keeps the pid and log files next to the store file.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Listen:     cfg.Server.Listen,
		CORS:       cfg.Server.CORS,
		BackendURL: cfg.Backend.URL,
		RunDir:     filepath.Dir(cfg.Store.File),
	}
}

func (o Options) PidFile() string {
	return filepath.Join(o.RunDir, PidFileName)
}

func (o Options) LogFile() string {
	return filepath.Join(o.RunDir, LogFileName)
}

// childEnv hands the resolved settings to the child as KIWI_ variables, so
// it serves what the parent checked even when they came from a config file
// the child cannot see.
func (o Options) childEnv() []string {
	return []string{
		DaemonEnvVar + "=1",
		"KIWI_SERVER_LISTEN=" + o.Listen,
		"KIWI_SERVER_CORS=" + strconv.FormatBool(o.CORS),
		"KIWI_BACKEND_URL=" + o.BackendURL,
	}
}

// Daemon is a kiwi server detached from the terminal.
type Daemon struct {
	opts Options
	ctx  *daemon.Context
}

func New(opts Options) *Daemon {
	// relative --config and store paths resolve against the caller's directory
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "/"
	}

	return &Daemon{
		opts: opts,
		ctx: &daemon.Context{
			PidFileName: opts.PidFile(),
			PidFilePerm: 0o644,
			LogFileName: opts.LogFile(),
			LogFilePerm: 0o640,
			WorkDir:     workDir,
			Umask:       0o27,
			Args:        os.Args,
			Env:         append(os.Environ(), opts.childEnv()...),
		},
	}
}

func (d *Daemon) Options() Options {
	return d.opts
}

// Start is called by both processes. The parent gets the child process
// back; the child finishes detaching, writes the pid file and gets nil.
func (d *Daemon) Start() (*os.Process, error) {
	if err := os.MkdirAll(d.opts.RunDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", d.opts.RunDir, err)
	}

	child, err := d.ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}
	return child, nil
}

// Release removes the pid file. Only the child calls it, on exit.
func (d *Daemon) Release() error {
	return d.ctx.Release()
}

// IsChild returns true if this is the daemon child process
func IsChild() bool {
	return os.Getenv(DaemonEnvVar) == "1"
}

// ReadPid returns the pid recorded in the pid file of opts.
func ReadPid(opts Options) (int, error) {
	pid, err := daemon.ReadPidFile(opts.PidFile())
	if err != nil {
		return 0, fmt.Errorf("no daemon pid in %s: %w", opts.PidFile(), err)
	}
	return pid, nil
}

// ServerURL turns a listen address into the URL a local client dials.
func ServerURL(addr string) string {
	// if no colon, assume it's a bare port number
	if !strings.Contains(addr, ":") {
		if _, err := strconv.Atoi(addr); err == nil {
			addr = ":" + addr
		}
	}

	// a listen address without host is reached through localhost
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	return "http://" + addr
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call posts one JSON-RPC request to the server at addr.
func call(ctx context.Context, addr, method string) (json.RawMessage, error) {
	url := ServerURL(addr)

	body, err := json.Marshal(server.JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		ID:      rpcRequestID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/rpc", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return nil, fmt.Errorf("server is not running on %s", url)
		}
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned error: %s", resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", url, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%s failed: %s (%d)", method, rpcResp.Error.Message, rpcResp.Error.Code)
	}
	return rpcResp.Result, nil
}

// Ping asks the server at addr for its pid.
func Ping(ctx context.Context, addr string) (*server.PingResponse, error) {
	raw, err := call(ctx, addr, server.MethodPing)
	if err != nil {
		return nil, err
	}
	var pong server.PingResponse
	if err := json.Unmarshal(raw, &pong); err != nil {
		return nil, fmt.Errorf("invalid ping result: %w", err)
	}
	return &pong, nil
}

// WaitReady polls addr until a server answers the ping. With pid > 0 the
// answer must come from that process, not from another server on the port.
func WaitReady(ctx context.Context, addr string, pid int) error {
	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		pong, err := Ping(ctx, addr)
		switch {
		case err != nil:
			lastErr = err
		case pid > 0 && pong.Pid != pid:
			return fmt.Errorf("%s is served by pid %d, not %d", ServerURL(addr), pong.Pid, pid)
		default:
			return nil
		}

		select {
		case <-ctx.Done():
			return multierr.Combine(ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}

// KillServer connects to the server and sends a shutdown command via JSON-RPC
func KillServer(addr string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := call(ctx, addr, server.MethodShutdown)
	return err
}
