package main

import (
	"github.com/sagernet/netstream"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	command := &cobra.Command{
		Use:     "netstream",
		Short:   "framed non-blocking tcp host and client",
		Version: netstream.Version,
	}
	command.AddCommand(serveCommand(), connectCommand())
	err := command.Execute()
	if err != nil {
		logrus.Fatal(err)
	}
}
