// Package config reads the netstream TOML configuration.
package config

import (
	"net/netip"
	"os"
	"syscall"
	"time"

	"github.com/sagernet/netstream/common"
	"github.com/sagernet/netstream/common/control"
	E "github.com/sagernet/netstream/common/exceptions"
	"github.com/sagernet/netstream/host"
	"github.com/sagernet/netstream/stream"
	"github.com/sagernet/netstream/transport/socket"

	"github.com/pelletier/go-toml"
)

const (
	DefaultAddress     = "0.0.0.0"
	DefaultPort        = 7300
	DefaultIdleTimeout = 70
	DefaultLogLevel    = "info"
)

type Custom struct {
	Host struct {
		Address string `toml:"address"`
		// Port zero picks an ephemeral port; DefaultPort applies only when the key is absent.
		Port int `toml:"port"`
		// IdleTimeout is in seconds; a negative value disables eviction.
		IdleTimeout int `toml:"idle-timeout"`
		// TimerPeriod is in milliseconds; zero disables the timer.
		TimerPeriod int  `toml:"timer-period"`
		NoDelay     bool `toml:"no-delay"`
		KeepAlive   bool `toml:"keep-alive"`
		// KeepAlivePeriod is the probe idle time and interval in seconds.
		KeepAlivePeriod int `toml:"keep-alive-period"`
		MaxFrameSize    int `toml:"max-frame-size"`
	} `toml:"host"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Metrics struct {
		Listen string `toml:"listen"`
	} `toml:"metrics"`
	Errors struct {
		Pending    []int `toml:"pending"`
		Connected  []int `toml:"connected"`
		WouldBlock []int `toml:"would-block"`
	} `toml:"errors"`
}

func Default() *Custom {
	var config Custom
	config.Host.Port = DefaultPort
	config.setDefaults()
	return &config
}

func Initialize(file string) (*Custom, error) {
	f, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	tree, err := toml.LoadBytes(f)
	if err != nil {
		return nil, E.Cause(err, "parse ", file)
	}
	var config Custom
	err = tree.Unmarshal(&config)
	if err != nil {
		return nil, E.Cause(err, "parse ", file)
	}
	// port = 0 asks for an ephemeral port
	if !tree.Has("host.port") {
		config.Host.Port = DefaultPort
	}
	config.setDefaults()
	err = config.validate()
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Custom) setDefaults() {
	if c.Host.Address == "" {
		c.Host.Address = DefaultAddress
	}
	if c.Host.IdleTimeout == 0 {
		c.Host.IdleTimeout = DefaultIdleTimeout
	}
	if c.Host.MaxFrameSize == 0 {
		c.Host.MaxFrameSize = stream.DefaultMaxFrameSize
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func (c *Custom) validate() error {
	if c.Host.Port < 0 || c.Host.Port > 65535 {
		return E.New("invalid port ", c.Host.Port)
	}
	if c.Host.TimerPeriod < 0 {
		return E.New("invalid timer period ", c.Host.TimerPeriod)
	}
	if c.Host.KeepAlivePeriod < 0 {
		return E.New("invalid keep-alive period ", c.Host.KeepAlivePeriod)
	}
	if c.Host.MaxFrameSize < 0 || c.Host.MaxFrameSize > stream.FrameSizeLimit {
		return E.New("invalid max frame size ", c.Host.MaxFrameSize)
	}
	_, err := c.ListenAddress()
	return err
}

func (c *Custom) ListenAddress() (netip.Addr, error) {
	address, err := netip.ParseAddr(c.Host.Address)
	if err != nil {
		return netip.Addr{}, E.Cause(err, "parse listen address")
	}
	return address.Unmap(), nil
}

func (c *Custom) IdleTimeout() time.Duration {
	if c.Host.IdleTimeout < 0 {
		return 0
	}
	return time.Duration(c.Host.IdleTimeout) * time.Second
}

func (c *Custom) TimerPeriod() time.Duration {
	return time.Duration(c.Host.TimerPeriod) * time.Millisecond
}

// Classifier returns the platform table with the configured sets replacing the
// matching defaults.
func (c *Custom) Classifier() *socket.Classifier {
	return socket.DefaultClassifier().Override(errnoList(c.Errors.Pending), errnoList(c.Errors.Connected), errnoList(c.Errors.WouldBlock))
}

// Control returns the raw socket setup applied to the listener and every accepted
// descriptor, or nil when there is none.
func (c *Custom) Control() control.Func {
	var controlFunc control.Func
	if c.Host.KeepAlive && c.Host.KeepAlivePeriod > 0 {
		period := time.Duration(c.Host.KeepAlivePeriod) * time.Second
		controlFunc = control.Append(controlFunc, control.SetKeepAlivePeriod(period, period))
	}
	return controlFunc
}

func (c *Custom) HostOptions() ([]host.Option, error) {
	address, err := c.ListenAddress()
	if err != nil {
		return nil, err
	}
	options := []host.Option{
		host.WithListenAddress(address),
		host.WithIdleTimeout(c.IdleTimeout()),
		host.WithNoDelay(c.Host.NoDelay),
		host.WithKeepAlive(c.Host.KeepAlive),
		host.WithMaxFrameSize(c.Host.MaxFrameSize),
		host.WithClassifier(c.Classifier()),
	}
	if controlFunc := c.Control(); controlFunc != nil {
		options = append(options, host.WithTransport(&socket.System{Control: controlFunc}))
	}
	return options, nil
}

func errnoList(codes []int) []syscall.Errno {
	return common.Map(codes, func(code int) syscall.Errno {
		return syscall.Errno(code)
	})
}
