package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/stargazer/config"
	"github.com/robmorgan/stargazer/engine"
	"github.com/spf13/pflag"
)

// osctrigger sends one sound engine callback to a running stargazer, e.g.
//
//	osctrigger bar 2.0
//	osctrigger select 7
func main() {
	host, port := listenHostPort(config.NewStargazerConfig().ListenAddr)
	pflag.StringVar(&host, "host", host, "host stargazer listens on")
	pflag.IntVar(&port, "port", port, "port stargazer listens on")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: osctrigger [flags] entry|bar <seconds>|beat <seconds>|select <playlist id>\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	msg, err := newMessage(pflag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(2)
	}

	client := osc.NewClient(host, port)
	if err := client.Send(msg); err != nil {
		fmt.Fprintf(os.Stderr, "could not send %s: %v\n", msg.Address, err)
		os.Exit(1)
	}
}

func listenHostPort(addr string) (string, int) {
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "127.0.0.1", 8765
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return host, 8765
	}
	return host, port
}

func newMessage(args []string) (*osc.Message, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing callback")
	}

	switch args[0] {
	case "entry":
		return osc.NewMessage(engine.AddressSyncEntry), nil
	case "bar", "beat":
		if len(args) < 2 {
			return nil, fmt.Errorf("%s needs a duration in seconds", args[0])
		}
		d, err := strconv.ParseFloat(args[1], 32)
		if err != nil {
			return nil, fmt.Errorf("bad duration %q: %w", args[1], err)
		}
		addr := engine.AddressSyncBar
		if args[0] == "beat" {
			addr = engine.AddressSyncBeat
		}
		return osc.NewMessage(addr, float32(d)), nil
	case "select":
		if len(args) < 2 {
			return nil, fmt.Errorf("select needs a playlist id")
		}
		id, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad playlist id %q: %w", args[1], err)
		}
		return osc.NewMessage(engine.AddressPlaylistSelect, int32(0), int32(0), int32(id), int32(1), int32(0), int32(0)), nil
	default:
		return nil, fmt.Errorf("unknown callback %q", args[0])
	}
}
