// Command pplmec is pplme's query CLI: it connects to a running
// pplmed daemon, sends one FindMatching request, and prints the
// matches. Grounded on original_source's pplmec/{main,pplme}.cc, with
// gflags-style flags reimplemented as Cobra flags.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiva/pplme/internal/model"
	"github.com/shiva/pplme/internal/netserver"
	"github.com/shiva/pplme/internal/wire"
	"github.com/shiva/pplme/pkg/geo"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		server    string
		port      int
		latitude  float64
		longitude float64
		age       int
	)

	cmd := &cobra.Command{
		Use:   "pplmec",
		Short: "pplmec is the pplMe command-line client",
		RunE: func(cmd *cobra.Command, args []string) error {
			origin := model.GeoPosition{Lat: latitude, Lon: longitude}
			origin.Validate()
			if age < 0 {
				return fmt.Errorf("age must be >= 0")
			}

			addr := fmt.Sprintf("%s:%d", server, port)
			client := netserver.NewClient(addr)
			if err := client.Connect(); err != nil {
				return fmt.Errorf("failed to connect to pplMe server %s: %w", addr, err)
			}
			defer client.Disconnect()

			reqBody := wire.MarshalFindRequest(wire.FindRequest{Origin: origin, Age: int32(age)})
			respBody, err := client.SendRequest(reqBody)
			if err != nil {
				return fmt.Errorf("pplMe request to %s failed: %w", addr, err)
			}

			resp, err := wire.UnmarshalFindResponse(respBody)
			if err != nil {
				return fmt.Errorf("invalid pplMe response received from %s: %w", addr, err)
			}

			printResults(cmd, age, latitude, longitude, resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "localhost", "address of the pplMe server")
	cmd.Flags().IntVar(&port, "port", 3333, "port of the pplMe server")
	cmd.Flags().Float64Var(&latitude, "latitude", 0, "user's decimal latitude")
	cmd.Flags().Float64Var(&longitude, "longitude", 0, "user's decimal longitude")
	cmd.Flags().IntVar(&age, "age", 0, "user's age")
	_ = cmd.MarkFlagRequired("latitude")
	_ = cmd.MarkFlagRequired("longitude")
	_ = cmd.MarkFlagRequired("age")

	return cmd
}

func printResults(cmd *cobra.Command, age int, lat, lon float64, resp wire.FindResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pplMe for user, %d @ %v, %v\n", age, lat, lon)
	if len(resp.Ppl) > 0 {
		fmt.Fprintf(out, "pplMe: you have %d potential friends :)\n", len(resp.Ppl))
	} else {
		fmt.Fprintln(out, "pplMe: no matching ppl found :(")
	}

	origin := model.GeoPosition{Lat: lat, Lon: lon}
	today := time.Now()
	for _, p := range resp.Ppl {
		distanceKm := geo.HaversineKm(origin, p.Home)
		fmt.Fprintf(out, "%s, %d @ %v, %v (%.1f km away)\n", p.Name, p.AgeAt(today), p.Home.Lat, p.Home.Lon, distanceKm)
	}
}
