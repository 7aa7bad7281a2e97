package main

import (
	"fmt"
	"os"

	"github.com/nickysemenza/gola"
	"github.com/robmorgan/stargazer/config"
	"github.com/spf13/pflag"
)

func main() {
	cfg := config.NewStargazerConfig()
	addr := pflag.String("ola", cfg.OLAAddr, "OLA daemon to read from")
	pflag.Parse()

	client, err := gola.New(*addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not create client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	// dump out the colour of every patched star
	universes := map[int][]byte{}
	for _, star := range cfg.PatchedStars {
		data, ok := universes[star.Universe]
		if !ok {
			x, err := client.GetDmx(star.Universe)
			if err != nil {
				fmt.Fprintf(os.Stderr, "GetDmx: %d: %v\n", star.Universe, err)
				continue
			}
			data = x.Data
			universes[star.Universe] = data
		}
		fmt.Println(formatStar(star, data))
	}
}

func formatStar(star config.PatchedStar, data []byte) string {
	rgb := make([]byte, 3)
	for i := range rgb {
		if ch := star.Address - 1 + i; ch < len(data) {
			rgb[i] = data[ch]
		}
	}
	return fmt.Sprintf("%-10s %d/%03d #%02x%02x%02x", star.Name, star.Universe, star.Address, rgb[0], rgb[1], rgb[2])
}
