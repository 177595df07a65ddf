package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sagernet/netstream/common"
	"github.com/sagernet/netstream/common/log"
	"github.com/sagernet/netstream/stream"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type connectFlags struct {
	Server  string
	Port    uint16
	NoDelay bool
	Verbose bool
}

func connectCommand() *cobra.Command {
	f := new(connectFlags)
	command := &cobra.Command{
		Use:   "connect",
		Short: "send each stdin line as a frame and print received frames",
		Run: func(cmd *cobra.Command, args []string) {
			runConnect(f)
		},
	}
	command.Flags().StringVarP(&f.Server, "server", "s", "127.0.0.1", "Set the server’s hostname or IP.")
	command.Flags().Uint16VarP(&f.Port, "port", "p", 7300, "Set the server’s port number.")
	command.Flags().BoolVar(&f.NoDelay, "no-delay", true, "Disable Nagle's algorithm once connected.")
	command.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose mode.")
	return command
}

func runConnect(f *connectFlags) {
	if f.Verbose {
		common.Must(log.SetLevel(logrus.DebugLevel.String()))
	}
	logger := log.NewLogger("connect")
	s := stream.New()
	err := s.Connect(f.Server, f.Port)
	if err != nil {
		logrus.Fatal(err)
	}
	defer s.Close()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	connected := false
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			err = s.Send([]byte(line))
			if errors.Is(err, stream.ErrFrameTooLarge) {
				logger.Warn(err)
			}
		case <-signals:
			return
		case <-ticker.C:
			s.Process()
		}
		if !connected && s.State() == stream.StateConnected {
			connected = true
			logger.Info("connected to ", s.Remote())
			if f.NoDelay {
				s.SetNoDelay(true)
			}
		}
		for {
			payload, ok := s.Recv()
			if !ok {
				break
			}
			fmt.Println(string(payload))
		}
		if s.State() == stream.StateClosed {
			if errors.Is(s.Err(), stream.ErrPeerClosed) {
				logger.Info("server closed the connection")
			} else {
				logger.Error(s.Err())
			}
			return
		}
	}
}
