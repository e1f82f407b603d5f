// camview-replay drives a running camviewd with a scripted sequence of host
// events and prints each result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-camview/internal/config"
	"github.com/teslashibe/go-camview/pkg/client"
)

func main() {
	url := flag.String("url", config.ServerURL(), "camviewd base URL (CAMVIEW_URL)")
	script := flag.String("script", "", "YAML event script; empty replays the built-in script")
	keep := flag.Bool("keep", false, "Keep the session after the replay")
	verbose := flag.Bool("v", false, "Print the full result of every event")
	flag.Parse()

	density, events, err := LoadScript(*script)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(*url)
	snap, err := c.CreateSession(ctx, density)
	if err != nil {
		log.Fatalf("❌ Create session: %v", err)
	}
	fmt.Printf("🎬 Session %s (%d events)\n", snap.ID, len(events))
	if !*keep {
		defer func() {
			dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer dcancel()
			if err := c.DeleteSession(dctx, snap.ID); err != nil {
				fmt.Printf("⚠️  Delete session: %v\n", err)
			}
		}()
	}

	conn, err := c.Dial(ctx, snap.ID)
	if err != nil {
		log.Fatalf("❌ Dial: %v", err)
	}
	defer conn.Close()

	for i, ev := range events {
		res, err := conn.Send(ctx, ev)
		if err != nil {
			fmt.Printf("%3d ❌ %-18s %v\n", i, ev.Kind, err)
			if ctx.Err() != nil {
				return
			}
			continue
		}

		st := res.State
		fmt.Printf("%3d ✅ %-18s status=%s orientation=%d preview=%s overlay=%s",
			i, ev.Kind, st.Status, st.DisplayOrientation, st.PreviewSize, st.Overlay)
		if res.Warning != "" {
			fmt.Printf(" ⚠️  %s", res.Warning)
		}
		fmt.Println()

		if *verbose {
			b, _ := json.MarshalIndent(res, "      ", "  ")
			fmt.Printf("      %s\n", b)
		}
	}
}
