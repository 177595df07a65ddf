package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sagernet/netstream/common"
	"github.com/sagernet/netstream/common/log"
	"github.com/sagernet/netstream/common/metrics"
	"github.com/sagernet/netstream/config"
	"github.com/sagernet/netstream/host"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	ConfigFile  string
	Address     string
	Port        uint16
	TimerPeriod time.Duration
	Metrics     string
	Verbose     bool
}

func serveCommand() *cobra.Command {
	f := new(serveFlags)
	command := &cobra.Command{
		Use:   "serve",
		Short: "run an echo host; a client sending \"exit\" is disconnected",
		Run: func(cmd *cobra.Command, args []string) {
			runServe(cmd, f)
		},
	}
	command.Flags().StringVarP(&f.ConfigFile, "config", "c", "", "Use a configuration file.")
	command.Flags().StringVarP(&f.Address, "address", "b", config.DefaultAddress, "Set the listen address.")
	command.Flags().Uint16VarP(&f.Port, "port", "p", config.DefaultPort, "Set the listen port. Zero picks an ephemeral port.")
	command.Flags().DurationVarP(&f.TimerPeriod, "timer", "t", 0, "Set the timer event period.")
	command.Flags().StringVar(&f.Metrics, "metrics", "", "Serve prometheus metrics on this address.")
	command.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose mode.")
	return command
}

func runServe(cmd *cobra.Command, f *serveFlags) {
	custom := config.Default()
	if f.ConfigFile != "" {
		custom = common.Must1(config.Initialize(f.ConfigFile))
	}
	if cmd.Flags().Changed("address") {
		custom.Host.Address = f.Address
	}
	if cmd.Flags().Changed("port") {
		custom.Host.Port = int(f.Port)
	}
	if cmd.Flags().Changed("timer") {
		custom.Host.TimerPeriod = int(f.TimerPeriod / time.Millisecond)
	}
	if f.Metrics != "" {
		custom.Metrics.Listen = f.Metrics
	}
	if f.Verbose {
		custom.Log.Level = logrus.DebugLevel.String()
	}
	common.Must(log.SetLevel(custom.Log.Level))
	logger := log.NewLogger("serve")

	options := common.Must1(custom.HostOptions())
	if custom.Metrics.Listen != "" {
		hostMetrics := common.Must1(metrics.NewHost("netstream", prometheus.DefaultRegisterer))
		options = append(options, host.WithMetrics(hostMetrics))
		go func() {
			err := http.ListenAndServe(custom.Metrics.Listen, promhttp.Handler())
			if err != nil {
				logger.Error("metrics: ", err)
			}
		}()
	}

	h := host.NewHost(options...)
	err := h.Startup(uint16(custom.Host.Port))
	if err != nil {
		logrus.Fatal(err)
	}
	h.SetTimer(custom.TimerPeriod())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case <-signals:
			logger.Info("shutting down")
			err = h.Shutdown()
			if err != nil {
				logger.Warn("shutdown: ", err)
			}
			return
		default:
		}
		err = h.Wait(time.Second)
		if err != nil {
			logger.Warn("wait: ", err)
		}
		h.Process()
		for {
			event, ok := h.Read()
			if !ok {
				break
			}
			echo(h, logger, event)
		}
	}
}

func echo(h *host.Host, logger logrus.FieldLogger, event host.Event) {
	switch event.Kind {
	case host.EventNew:
		logger.Info("connection ", event.Handle, " from ", string(event.Payload))
	case host.EventLeave:
		errno, _ := h.Error(event.Handle)
		if errno != 0 {
			logger.Info("connection ", event.Handle, " left: ", errno)
		} else {
			logger.Info("connection ", event.Handle, " left")
		}
	case host.EventData:
		if string(event.Payload) == "exit" {
			h.Close(event.Handle)
			return
		}
		err := h.Send(event.Handle, event.Payload)
		if err != nil {
			logger.Warn("echo to ", event.Handle, ": ", err)
		}
	case host.EventTimer:
		logger.Debug("timer: ", h.Count(), " connections")
	}
}
